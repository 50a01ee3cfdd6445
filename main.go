package main

import (
	"log"
	"os"

	"github.com/Dafi-web/abunearegawi/db"
	_ "github.com/Dafi-web/abunearegawi/docs"
	"github.com/Dafi-web/abunearegawi/routes"
	"github.com/Dafi-web/abunearegawi/scheduler"
	"github.com/Dafi-web/abunearegawi/utils"

	"github.com/gin-gonic/gin"
)

// @title Abune Aregawi Church API
// @version 1.0
// @description REST API for the Abune Aregawi church community site: posts, calendar, membership and payments.
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	if err := utils.InitCloudinary(); err != nil {
		log.Printf("Warning: Cloudinary initialization failed: %v", err)
		log.Println("Media uploads will not work correctly.")
	}

	// The reminder job only makes sense with a live database behind it.
	s := scheduler.NewScheduler()
	s.Start()

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
