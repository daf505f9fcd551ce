package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/proc-track/workflow-service/internal/domain"
)

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return domain.Category(fl.Field().String()).IsValid()
		})
	}
}

// NewRouter assembles the HTTP API. Authorization happens upstream; the
// acting user arrives via the X-User-ID header set by the auth proxy.
func NewRouter(transactionHandler *TransactionHandler, workflowHandler *WorkflowHandler) *gin.Engine {
	registerValidations()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		transactions := api.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.POST("/receive-bulk", transactionHandler.BulkReceive)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.GET("/:id/timeline", transactionHandler.Timeline)
			transactions.GET("/:id/history", transactionHandler.History)
			transactions.POST("/:id/endorse", transactionHandler.Endorse)
			transactions.POST("/:id/receive", transactionHandler.Receive)
			transactions.POST("/:id/complete", transactionHandler.Complete)
			transactions.POST("/:id/hold", transactionHandler.Hold)
			transactions.POST("/:id/cancel", transactionHandler.Cancel)
			transactions.POST("/:id/resume", transactionHandler.Resume)
		}

		workflows := api.Group("/workflows")
		{
			workflows.POST("", workflowHandler.Create)
			workflows.GET("", workflowHandler.List)
			workflows.GET("/:id", workflowHandler.Get)
			workflows.PUT("/:id", workflowHandler.Update)
			workflows.POST("/:id/activate", workflowHandler.Activate)
		}
	}

	return router
}
