package controller

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the country and team endpoints under api.
func RegisterRoutes(api *gin.RouterGroup, countries *CountryController, teams *TeamController) {
	countryGroup := api.Group("/countries")
	countryGroup.GET("", countries.GetAll)
	countryGroup.GET("/paginated", countries.GetPaginated)
	countryGroup.GET("/totalRecordsPaginated", countries.GetTotalRecords)
	countryGroup.GET("/combo", countries.GetCombo)
	countryGroup.GET("/:id", countries.Get)
	countryGroup.POST("", countries.Create)
	countryGroup.PUT("", countries.Update)
	countryGroup.DELETE("/:id", countries.Delete)

	teamGroup := api.Group("/teams")
	teamGroup.GET("", teams.GetAll)
	teamGroup.GET("/paginated", teams.GetPaginated)
	teamGroup.GET("/totalRecordsPaginated", teams.GetTotalRecords)
	teamGroup.GET("/combo", teams.GetCombo)
	teamGroup.GET("/combo/:countryId", teams.GetCombo)
	teamGroup.GET("/:id", teams.Get)
	teamGroup.POST("", teams.Create)
	teamGroup.PUT("", teams.Update)
	teamGroup.POST("/full", teams.AddFull)
	teamGroup.PUT("/full", teams.UpdateFull)
	teamGroup.DELETE("/:id", teams.Delete)
}
