package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ormeet/ormeet-api/docs"
	v1 "github.com/ormeet/ormeet-api/internal/api/handler/v1"
	"github.com/ormeet/ormeet-api/internal/api/middleware"
	"github.com/ormeet/ormeet-api/internal/config"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/payment"
	"github.com/ormeet/ormeet-api/internal/repository"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
	"github.com/ormeet/ormeet-api/internal/service"
	"github.com/ormeet/ormeet-api/internal/storage"
)

// Deps are the long-lived resources the handlers are built on. Redis is
// optional.
type Deps struct {
	Postgres *gorm.DB
	Redis    *redis.Client
	Notifier *notify.Dispatcher
	Verifier payment.Verifier
	Storage  *storage.Local
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	deps  Deps
	repos repositories
}

type repositories struct {
	users         *repository.UserRepository
	events        *repository.EventRepository
	venues        *repository.VenueRepository
	ticketTypes   *repository.TicketTypeRepository
	orders        *repository.OrderRepository
	tickets       *repository.TicketRepository
	attendance    *repository.AttendanceRepository
	promotions    *repository.PromotionRepository
	reviews       *repository.ReviewRepository
	organizations *repository.OrganizationRepository
	media         *repository.MediaRepository
}

type handlers struct {
	health       *v1.HealthHandler
	auth         *v1.AuthHandler
	user         *v1.UserHandler
	event        *v1.EventHandler
	ticketType   *v1.TicketTypeHandler
	order        *v1.OrderHandler
	ticket       *v1.TicketHandler
	attendance   *v1.AttendanceHandler
	promotion    *v1.PromotionHandler
	review       *v1.ReviewHandler
	organization *v1.OrganizationHandler
	venue        *v1.VenueHandler
	upload       *v1.UploadHandler
	email        *v1.EmailHandler
}

func NewServer(conf *config.AppConfig, deps Deps) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		deps:   deps,
		repos:  newRepositories(deps.Postgres),
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers())

	return s
}

func newRepositories(db *gorm.DB) repositories {
	return repositories{
		users:         repository.NewUserRepository(dao.NewUserDAO(db)),
		events:        repository.NewEventRepository(dao.NewEventDAO(db)),
		venues:        repository.NewVenueRepository(dao.NewVenueDAO(db)),
		ticketTypes:   repository.NewTicketTypeRepository(dao.NewTicketTypeDAO(db)),
		orders:        repository.NewOrderRepository(dao.NewOrderDAO(db)),
		tickets:       repository.NewTicketRepository(dao.NewTicketDAO(db)),
		attendance:    repository.NewAttendanceRepository(dao.NewAttendanceDAO(db)),
		promotions:    repository.NewPromotionRepository(dao.NewPromotionDAO(db)),
		reviews:       repository.NewReviewRepository(dao.NewReviewDAO(db)),
		organizations: repository.NewOrganizationRepository(dao.NewOrganizationDAO(db)),
		media:         repository.NewMediaRepository(dao.NewMediaDAO(db)),
	}
}

func (s *Server) initHandlers() handlers {
	r := s.repos
	n := s.deps.Notifier
	frontendURL := s.Config.API.FrontendURL

	return handlers{
		health: v1.NewHealthHandler(s.deps.Postgres, s.deps.Redis),
		auth:   v1.NewAuthHandler(s.Config.API, service.NewAuthService(r.users, n, n, frontendURL)),
		user:   v1.NewUserHandler(service.NewUserService(r.users)),
		event:  v1.NewEventHandler(service.NewEventService(r.events, r.organizations)),
		ticketType: v1.NewTicketTypeHandler(
			service.NewTicketTypeService(r.ticketTypes, r.events, r.organizations),
		),
		order: v1.NewOrderHandler(
			service.NewOrderService(r.orders, r.ticketTypes, r.promotions, r.events, r.venues, r.users, s.deps.Verifier, n),
		),
		ticket: v1.NewTicketHandler(
			service.NewTicketService(r.tickets, r.ticketTypes, r.events, r.organizations, r.users),
		),
		attendance: v1.NewAttendanceHandler(
			service.NewAttendanceService(r.attendance, r.tickets, r.ticketTypes, r.events, r.venues, r.users, n),
		),
		promotion:    v1.NewPromotionHandler(service.NewPromotionService(r.promotions, r.events, r.organizations)),
		review:       v1.NewReviewHandler(service.NewReviewService(r.reviews, r.events)),
		organization: v1.NewOrganizationHandler(service.NewOrganizationService(r.organizations, r.users, n, frontendURL)),
		venue:        v1.NewVenueHandler(service.NewVenueService(r.venues)),
		upload:       v1.NewUploadHandler(service.NewUploadService(s.deps.Storage, r.media)),
		email:        v1.NewEmailHandler(service.NewEmailService(n, frontendURL)),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(middleware.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.AccessLog())
	s.Router.Use(middleware.Metrics())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

// limiter throttles the public endpoints when redis is available.
func (s *Server) limiter() gin.HandlerFunc {
	if s.deps.Redis == nil || !s.Config.RateLimit.Enabled {
		return func(ctx *gin.Context) { ctx.Next() }
	}

	return middleware.NewRateLimiter(s.deps.Redis, s.Config.RateLimit.RequestsPerMinute).Limit()
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	limit := s.limiter()
	staff := middleware.RequireRoles(domain.RoleAdmin, domain.RoleOrganizer)

	public := s.Router.Group(basePath, limit)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)
		public.POST("/auth/password/forgot", h.auth.HandleForgotPassword)
		public.POST("/auth/password/reset", h.auth.HandleResetPassword)

		public.GET("/tickets/qr/:code", h.ticket.HandleGetTicketByCode)
		public.POST("/promotions/validate/:code", h.promotion.HandleValidatePromotion)
	}

	api := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())

	api.GET("/users/:userID", h.user.HandleGetUser)

	events := api.Group("/events")
	{
		events.POST("", h.event.HandleCreateEvent)
		events.GET("", h.event.HandleListEvents)
		events.GET("/:id", h.event.HandleGetEvent)
		events.PATCH("/:id", h.event.HandleUpdateEvent)
		events.DELETE("/:id", h.event.HandleDeleteEvent)
		events.POST("/:id/publish", h.event.HandlePublishEvent)
		events.POST("/:id/cancel", h.event.HandleCancelEvent)
		events.POST("/:id/view", h.event.HandleViewEvent)
		events.POST("/:id/favorite", h.event.HandleFavoriteEvent)
	}

	ticketTypes := api.Group("/ticket-types")
	{
		ticketTypes.POST("", h.ticketType.HandleCreateTicketType)
		ticketTypes.GET("", h.ticketType.HandleListTicketTypes)
		ticketTypes.GET("/event/:eventId", h.ticketType.HandleListEventTicketTypes)
		ticketTypes.GET("/:id", h.ticketType.HandleGetTicketType)
		ticketTypes.GET("/:id/available", h.ticketType.HandleAvailableQuantity)
		ticketTypes.GET("/:id/is-available", h.ticketType.HandleIsAvailable)
		ticketTypes.PATCH("/:id", h.ticketType.HandleUpdateTicketType)
		ticketTypes.DELETE("/:id", h.ticketType.HandleDeleteTicketType)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", h.order.HandleCreateOrder)
		orders.GET("", h.order.HandleListOrders)
		orders.GET("/user/:userId", h.order.HandleListUserOrders)
		orders.GET("/:id", h.order.HandleGetOrder)
		orders.PATCH("/:id", h.order.HandleUpdateOrder)
		orders.DELETE("/:id", h.order.HandleDeleteOrder)
		orders.POST("/:id/payment", h.order.HandleProcessPayment)
		orders.POST("/:id/fail", h.order.HandleFailOrder)
		orders.POST("/:id/refund", staff, h.order.HandleRefundOrder)
	}

	tickets := api.Group("/tickets")
	{
		tickets.POST("", h.ticket.HandleCreateTicket)
		tickets.GET("", h.ticket.HandleListTickets)
		tickets.GET("/user/:userId", h.ticket.HandleListUserTickets)
		tickets.GET("/:id", h.ticket.HandleGetTicket)
		tickets.PATCH("/:id", h.ticket.HandleUpdateTicket)
		tickets.DELETE("/:id", h.ticket.HandleDeleteTicket)
		tickets.POST("/:id/cancel", h.ticket.HandleCancelTicket)
		tickets.POST("/:id/use", h.ticket.HandleUseTicket)
		tickets.POST("/:id/transfer", h.ticket.HandleTransferTicket)
	}

	attendance := api.Group("/attendance")
	{
		attendance.POST("", h.attendance.HandleCheckIn)
		attendance.GET("", h.attendance.HandleListAttendance)
		attendance.GET("/event/:eventId", h.attendance.HandleListEventAttendance)
		attendance.GET("/event/:eventId/count", h.attendance.HandleCountEventAttendance)
		attendance.GET("/event/:eventId/stats", h.attendance.HandleEventAttendanceStats)
		attendance.GET("/ticket/:ticketId", h.attendance.HandleListTicketAttendance)
		attendance.GET("/:id", h.attendance.HandleGetAttendance)
		attendance.PATCH("/:id", h.attendance.HandleUpdateAttendance)
		attendance.DELETE("/:id", h.attendance.HandleDeleteAttendance)
	}

	promotions := api.Group("/promotions")
	{
		promotions.POST("", h.promotion.HandleCreatePromotion)
		promotions.GET("", h.promotion.HandleListPromotions)
		promotions.GET("/code/:code", h.promotion.HandleGetPromotionByCode)
		promotions.GET("/:id", h.promotion.HandleGetPromotion)
		promotions.PATCH("/:id", h.promotion.HandleUpdatePromotion)
		promotions.DELETE("/:id", h.promotion.HandleDeletePromotion)
		promotions.POST("/:id/deactivate", h.promotion.HandleDeactivatePromotion)
	}

	reviews := api.Group("/reviews")
	{
		reviews.POST("", h.review.HandleCreateReview)
		reviews.GET("", h.review.HandleListReviews)
		reviews.GET("/event/:eventId", h.review.HandleListEventReviews)
		reviews.GET("/event/:eventId/average", h.review.HandleEventAverageRating)
		reviews.GET("/:id", h.review.HandleGetReview)
		reviews.PATCH("/:id", h.review.HandleUpdateReview)
		reviews.DELETE("/:id", h.review.HandleDeleteReview)
		reviews.POST("/:id/approve", h.review.HandleApproveReview)
		reviews.POST("/:id/reject", h.review.HandleRejectReview)
	}

	orgs := api.Group("/organizations")
	{
		orgs.POST("", h.organization.HandleCreateOrganization)
		orgs.GET("", h.organization.HandleListOrganizations)
		orgs.GET("/owner/:ownerId", h.organization.HandleListOwnerOrganizations)
		orgs.POST("/invites/accept", h.organization.HandleAcceptInvite)
		orgs.GET("/:id", h.organization.HandleGetOrganization)
		orgs.PATCH("/:id", h.organization.HandleUpdateOrganization)
		orgs.DELETE("/:id", h.organization.HandleDeleteOrganization)
		orgs.GET("/:id/members", h.organization.HandleListMembers)
		orgs.POST("/:id/members/:userId", h.organization.HandleAddMember)
		orgs.DELETE("/:id/members/:userId", h.organization.HandleRemoveMember)
		orgs.PATCH("/:id/members/:userId/role", h.organization.HandleUpdateMemberRole)
		orgs.POST("/:id/invite", h.organization.HandleInviteMember)
		orgs.GET("/:id/invites", h.organization.HandleListInvites)
		orgs.DELETE("/:id/invites/:inviteId", h.organization.HandleCancelInvite)
		orgs.GET("/:id/roles", h.organization.HandleListRoles)
		orgs.POST("/:id/roles", h.organization.HandleCreateRole)
		orgs.PATCH("/:id/roles/:roleId", h.organization.HandleUpdateRole)
		orgs.DELETE("/:id/roles/:roleId", h.organization.HandleDeleteRole)
	}

	venues := api.Group("/venues")
	{
		venues.POST("", h.venue.HandleCreateVenue)
		venues.GET("", h.venue.HandleListVenues)
		venues.GET("/nearby", h.venue.HandleNearbyVenues)
		venues.GET("/:id", h.venue.HandleGetVenue)
		venues.PATCH("/:id", h.venue.HandleUpdateVenue)
		venues.DELETE("/:id", h.venue.HandleDeleteVenue)
	}

	api.POST("/upload/image", h.upload.HandleUploadImage)
	api.POST("/upload/images", h.upload.HandleUploadImages)
	api.POST("/email/test-reminder", staff, h.email.HandleTestReminder)

	s.Router.GET("/", h.health.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.Router.Static("/media", s.deps.Storage.Dir())

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Ormeet API"
	docs.SwaggerInfo.Description = "Event ticketing: events, tickets, orders and check-in."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	zap.L().Info("routes mounted", zap.Int("count", len(s.Router.Routes())))
}
