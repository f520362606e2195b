package routes

import (
	"github.com/fit-quest/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupClassRoutes(protected *gin.RouterGroup, classController *controllers.ClassController) {
	classes := protected.Group("/classes")
	{
		classes.GET("", classController.GetClasses)
		classes.POST("/select", classController.SelectClass)
	}
}
