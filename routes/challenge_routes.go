package routes

import (
	"github.com/fit-quest/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupChallengeRoutes(protected *gin.RouterGroup, challengeController *controllers.ChallengeController) {
	challenges := protected.Group("/challenges")
	{
		challenges.GET("", challengeController.GetChallenges)
		challenges.POST("/claim", challengeController.ClaimChallenge)
	}
}
