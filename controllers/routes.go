package controllers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every business route on the given group
func (h *Controller) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/database/status", h.DatabaseStatus)
	rg.GET("/me", h.GetOperatorProfile)

	locations := rg.Group("/locations")
	{
		locations.GET("", h.ListLocations)
		locations.POST("", h.CreateLocation)
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}

	users := rg.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	technicians := rg.Group("/technicians")
	{
		technicians.GET("", h.ListTechnicians)
		technicians.POST("", h.CreateTechnician)
		technicians.GET("/eligible-users", h.ListEligibleTechnicianUsers)
		technicians.GET("/:id", h.GetTechnician)
		technicians.PUT("/:id", h.UpdateTechnician)
		technicians.DELETE("/:id", h.DeleteTechnician)
		technicians.GET("/:id/rating", h.GetTechnicianRating)
		technicians.GET("/:id/earnings", h.GetTechnicianEarnings)
		technicians.GET("/:id/dashboard", h.GetTechnicianDashboard)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.GET("/:id", h.GetCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}

	requests := rg.Group("/requests")
	{
		requests.GET("", h.ListRequests)
		requests.POST("", h.CreateRequest)
		requests.GET("/assignable", h.ListAssignableRequests)
		requests.GET("/:id", h.GetRequest)
		requests.PUT("/:id", h.UpdateRequest)
		requests.DELETE("/:id", h.DeleteRequest)
		requests.PATCH("/:id/status", h.UpdateRequestStatus)
		requests.POST("/:id/cancel", h.CancelRequest)
	}

	assignments := rg.Group("/assignments")
	{
		assignments.GET("", h.ListAssignments)
		assignments.POST("", h.AssignTechnician)
		assignments.GET("/awaiting-payment", h.ListAssignmentsAwaitingPayment)
		assignments.GET("/awaiting-review", h.ListAssignmentsAwaitingReview)
		assignments.GET("/:id", h.GetAssignment)
		assignments.POST("/:id/start", h.StartService)
		assignments.POST("/:id/complete", h.CompleteService)
	}

	payments := rg.Group("/payments")
	{
		payments.GET("", h.ListPayments)
		payments.POST("", h.RecordPayment)
		payments.GET("/summary", h.PaymentSummary)
		payments.GET("/:id", h.GetPayment)
	}

	reviews := rg.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", h.CreateReview)
		reviews.GET("/:id", h.GetReview)
	}

	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/reports", h.ListReports)
	rg.GET("/reports/:name", h.GetReport)
	rg.POST("/reports/:name/archive", h.ArchiveReport)
}
