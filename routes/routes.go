package routes

import (
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/config"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/controllers"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/middlewares"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(hub *services.RealtimeHub) *gin.Engine {
	r := gin.Default()

	db := config.DB
	recipeSvc := services.NewRecipeService(db)
	mealSvc := services.NewMealService(db, recipeSvc)
	planSvc := services.NewPlanService(db, services.NewPlanAIClient())
	ingredientSvc := services.NewIngredientService(db)
	favoriteSvc := services.NewFavoriteService(db)
	achievementSvc := services.NewAchievementService(db)

	ingredientCtl := controllers.NewIngredientController(ingredientSvc)
	recipeCtl := controllers.NewRecipeController(recipeSvc, favoriteSvc)
	mealCtl := controllers.NewMealController(mealSvc)
	planCtl := controllers.NewPlanController(planSvc, mealSvc)
	achievementCtl := controllers.NewAchievementController(achievementSvc)
	realtimeCtl := controllers.NewRealtimeController(hub)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/user/profile", controllers.GetProfile)
		api.PUT("/user/profile", controllers.UpdateProfile)

		api.GET("/ingredients", ingredientCtl.Search)
		api.POST("/ingredients", ingredientCtl.Create)
		api.PUT("/ingredients/:id", ingredientCtl.Update)
		api.DELETE("/ingredients/:id", ingredientCtl.Delete)

		api.GET("/recipes", recipeCtl.List)
		api.GET("/recipes/:id", recipeCtl.Get)
		api.POST("/recipes", recipeCtl.Create)
		api.PUT("/recipes/:id", recipeCtl.Update)
		api.DELETE("/recipes/:id", recipeCtl.Delete)
		api.POST("/recipes/:id/favorite", recipeCtl.ToggleFavorite)
		api.POST("/recipes/:id/vote", recipeCtl.Vote)
		api.GET("/favorites", recipeCtl.ListFavorites)

		api.POST("/meals", mealCtl.LogMeal)
		api.GET("/meals", mealCtl.GetByDate)
		api.DELETE("/meals/:id", mealCtl.DeleteLog)
		api.PUT("/meal-details/:id", mealCtl.UpdateDetail)
		api.DELETE("/meal-details/:id", mealCtl.DeleteDetail)
		api.GET("/meal-logs/weekly", mealCtl.Weekly)

		api.POST("/me/goals", planCtl.SaveGoals)
		api.GET("/me/goals/latest", planCtl.Latest)
		api.GET("/me/progress", planCtl.Progress)
		api.GET("/me/achievements", achievementCtl.ListMine)

		api.GET("/ws", realtimeCtl.EventsWS)
	}

	return r
}
