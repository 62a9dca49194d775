package web

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"payflow/config"
	it "payflow/intent/intent"
	imem "payflow/intent/mem"
	irest "payflow/intent/rest"
	"payflow/mq/gcppubsub"
	"payflow/mq/goch"
	"payflow/mq/mq"
	"payflow/mq/rabbit"
	pfixed "payflow/pricing/fixed"
	pt "payflow/pricing/pricing"
	prest "payflow/pricing/rest"
	rmem "payflow/rail/mem"
	rt "payflow/rail/rail"
	rrest "payflow/rail/rest"
	smem "payflow/store/mem"
	spg "payflow/store/pg"
	st "payflow/store/store"
	wmem "payflow/wallet/mem"
	wrest "payflow/wallet/rest"
	wt "payflow/wallet/wallet"
)

// ServiceConfig selects the backends the server runs against.
type ServiceConfig struct {
	IsDev  bool
	Port   string
	MqMode mq.Mode
}

// dependencies bundles every collaborator the handler needs.
type dependencies struct {
	pricing   pt.Client
	rails     rt.Dispatcher
	wallets   wt.Directory
	intents   st.IntentStore
	validator it.Validator
	events    mq.CheckoutEventQueueWrapper

	feeRate  decimal.Decimal
	feeFloor decimal.Decimal
}

// buildDependencies wires in-memory backends in dev mode and the REST/pg
// backends otherwise.
func buildDependencies(cfg ServiceConfig) *dependencies {
	appCfg := config.Cfg

	deps := &dependencies{
		feeRate:  decimal.RequireFromString(appCfg.FallbackFeeRate),
		feeFloor: decimal.RequireFromString(appCfg.FallbackFeeFloor),
	}

	if cfg.IsDev {
		deps.pricing = pfixed.NewClient()
		deps.rails = rmem.NewDispatcher()
		deps.wallets = wmem.NewInMemoryDirectory()
		deps.intents = smem.NewInMemoryIntentStore()
		deps.validator = imem.NewValidator()
	} else {
		deps.pricing = prest.NewClient(appCfg.PricingServiceURL, appCfg.UpstreamTimeout, appCfg.QuoteCacheTTL)
		deps.rails = rrest.NewClient(appCfg.RailServiceURL, appCfg.UpstreamTimeout)
		deps.wallets = wrest.NewClient(appCfg.WalletServiceURL, appCfg.UpstreamTimeout)
		deps.validator = irest.NewClient(appCfg.IntentServiceURL, appCfg.UpstreamTimeout)

		gormDB, err := spg.InitPostgresGORM(spg.CreateDSN())
		if err != nil {
			log.Fatalf("Failed to init postgres: %v", err)
		}
		deps.intents = spg.NewPgIntentStore(gormDB)
	}

	deps.events = buildEventQueues(cfg.MqMode)
	return deps
}

func buildEventQueues(mode mq.Mode) mq.CheckoutEventQueueWrapper {
	switch mode {
	case mq.ModeRabbitMQ:
		conn := rabbit.NewRabbitConnection(rabbit.CreateAmqpURL())
		wrapper, err := rabbit.NewRabbitCheckoutEventQueueWrapper(conn)
		if err != nil {
			log.Fatalf("Failed to init rabbitmq queues: %v", err)
		}
		return wrapper
	case mq.ModeGCPPubSub:
		ctx := context.Background()
		client, err := gcppubsub.NewPubSubClient(ctx, gcppubsub.GetGCPProjectID())
		if err != nil {
			log.Fatalf("Failed to init pubsub client: %v", err)
		}
		wrapper, err := gcppubsub.NewPubSubCheckoutEventQueueWrapper(ctx, client)
		if err != nil {
			log.Fatalf("Failed to init pubsub queues: %v", err)
		}
		return wrapper
	default:
		return goch.NewGoChanCheckoutEventQueueWrapper()
	}
}

// Serve starts the checkout API.
func Serve(cfg ServiceConfig) {
	if !cfg.IsDev {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	setupMiddlewares(r)

	h := NewHandler(buildDependencies(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/sessions", h.CreateSession)
		api.PUT("/sessions/:id/context", h.SetContext)
		api.PUT("/sessions/:id/funding", h.SetFundingSource)
		api.POST("/sessions/:id/submit", h.Submit)
		api.GET("/sessions/:id/fee", h.CurrentFee)
		api.GET("/sessions/:id/validation", h.ValidationState)
		api.GET("/sessions/:id/events", h.StreamEvents)
		api.GET("/funding-sources", h.ListFundingSources)
		api.POST("/qr/validate", h.ValidateQR)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start web server: %v", err)
	}
}
