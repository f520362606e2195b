package routes

import (
	"github.com/fit-quest/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupActivityRoutes(protected *gin.RouterGroup, activityController *controllers.ActivityController) {
	activities := protected.Group("/activities")
	{
		activities.POST("", activityController.CreateActivity)
		activities.POST("/preview", activityController.PreviewExp)
		activities.GET("", activityController.GetActivities)
		activities.GET("/:id", activityController.GetActivity)
		activities.PUT("/:id", activityController.UpdateActivity)
		activities.DELETE("/:id", activityController.DeleteActivity)
	}
}
