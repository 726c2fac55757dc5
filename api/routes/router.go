package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidquintana/archivio-backend/api/controllers"
	"github.com/davidquintana/archivio-backend/api/middleware"
	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	"github.com/davidquintana/archivio-backend/internal/auth"
	customer "github.com/davidquintana/archivio-backend/internal/customers"
	document "github.com/davidquintana/archivio-backend/internal/documents"
	notification "github.com/davidquintana/archivio-backend/internal/notifications"
	rule "github.com/davidquintana/archivio-backend/internal/rules"
	"github.com/davidquintana/archivio-backend/internal/search"
	"github.com/davidquintana/archivio-backend/internal/storagetopo"
	user "github.com/davidquintana/archivio-backend/internal/users"
	workflow "github.com/davidquintana/archivio-backend/internal/workflows"
	"github.com/davidquintana/archivio-backend/pkg/auth/session"
	"github.com/davidquintana/archivio-backend/pkg/config"
	"github.com/davidquintana/archivio-backend/pkg/db"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	"github.com/davidquintana/archivio-backend/pkg/logger"
	"github.com/davidquintana/archivio-backend/pkg/metrics"
	"github.com/davidquintana/archivio-backend/pkg/redis"
	"github.com/davidquintana/archivio-backend/pkg/storage/gcs"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth          auth.Service
	Customers     customer.Service
	Storage       storagetopo.Service
	Assignments   assignment.Service
	Rules         rule.Service
	Documents     document.Service
	Search        search.Service
	Workflows     workflow.Service
	Notifications notification.Service
	Users         user.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	var idemStore redis.IdempotencyStore
	var redisP redis.Pinger
	if redisClient != nil {
		idemStore = redisClient
		redisP = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
		middleware.Logging(logg),
		middleware.Metrics(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP, gcsClient))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		// Read surface, any authenticated role.
		r.Get("/customers", controllers.CustomerList(svcs.Customers, logg))
		r.Get("/customers/{customerID}", controllers.CustomerDetail(svcs.Customers, logg))
		r.Get("/customers/{customerID}/rollup", controllers.CustomerRollup(svcs.Customers, logg))
		r.Get("/warehouses", controllers.WarehouseList(svcs.Storage, logg))
		r.Get("/zones", controllers.ZoneList(svcs.Storage, logg))
		r.Get("/shelves", controllers.ShelfList(svcs.Storage, logg))
		r.Get("/racks", controllers.RackList(svcs.Storage, logg))
		r.Get("/racks/{rackID}", controllers.RackDetail(svcs.Storage, logg))
		r.Get("/racks/{rackID}/label", controllers.RackLabel(svcs.Storage, logg))
		r.Get("/assignments", controllers.AssignmentList(svcs.Assignments, logg))
		r.Get("/rules", controllers.RuleList(svcs.Rules, logg))
		r.Get("/rules/{ruleID}", controllers.RuleDetail(svcs.Rules, logg))
		r.Get("/documents", controllers.DocumentList(svcs.Documents, logg))
		r.Get("/documents/{documentID}", controllers.DocumentDetail(svcs.Documents, logg))
		r.Get("/documents/{documentID}/presign-download", controllers.DocumentPresignDownload(svcs.Documents, logg))
		r.Get("/folders", controllers.FolderList(svcs.Documents, logg))
		r.Get("/search", controllers.SearchDocuments(svcs.Search, logg))
		r.Post("/search/ask", controllers.SearchAsk(svcs.Search, logg))
		r.Get("/workflows", controllers.WorkflowRuleList(svcs.Workflows, logg))
		r.Get("/workflows/{workflowRuleID}", controllers.WorkflowRuleDetail(svcs.Workflows, logg))
		r.Post("/customers/{customerID}/simulate-assignment", controllers.CustomerSimulateAssignment(svcs.Assignments, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		// Mutations need operator or better.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.MemberRoleOperator, logg))

			r.Post("/customers", controllers.CustomerCreate(svcs.Customers, logg))
			r.Patch("/customers/{customerID}", controllers.CustomerUpdate(svcs.Customers, logg))
			r.Delete("/customers/{customerID}", controllers.CustomerDeactivate(svcs.Customers, logg))

			r.Post("/warehouses", controllers.WarehouseCreate(svcs.Storage, logg))
			r.Post("/zones", controllers.ZoneCreate(svcs.Storage, logg))
			r.Post("/shelves", controllers.ShelfCreate(svcs.Storage, logg))
			r.Post("/racks", controllers.RackCreate(svcs.Storage, logg))
			r.Patch("/racks/{rackID}", controllers.RackUpdate(svcs.Storage, logg))

			r.Post("/assignments", controllers.AssignmentCreate(svcs.Assignments, logg))
			r.Patch("/assignments/{assignmentID}", controllers.AssignmentUpdate(svcs.Assignments, logg))
			r.Delete("/assignments/{assignmentID}", controllers.AssignmentDeactivate(svcs.Assignments, logg))

			r.Post("/rules", controllers.RuleCreate(svcs.Rules, logg))
			r.Patch("/rules/{ruleID}", controllers.RuleUpdate(svcs.Rules, logg))
			r.Delete("/rules/{ruleID}", controllers.RuleDeactivate(svcs.Rules, logg))
			r.Post("/rules/{ruleID}/materialize", controllers.RuleMaterialize(svcs.Rules, logg))

			r.Post("/documents", controllers.DocumentCreate(svcs.Documents, logg))
			r.Patch("/documents/{documentID}", controllers.DocumentUpdate(svcs.Documents, logg))
			r.Post("/documents/{documentID}/place", controllers.DocumentPlace(svcs.Documents, logg))
			r.Post("/documents/{documentID}/transition", controllers.DocumentTransition(svcs.Documents, logg))
			r.Post("/documents/{documentID}/presign-upload", controllers.DocumentPresignUpload(svcs.Documents, logg))
			r.Post("/documents/{documentID}/reindex", controllers.SearchReindex(svcs.Search, logg))

			r.Post("/folders", controllers.FolderCreate(svcs.Documents, logg))
			r.Delete("/folders/{folderID}", controllers.FolderDelete(svcs.Documents, logg))
		})

		// User and workflow administration is admin only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.MemberRoleAdmin, logg))

			r.Post("/workflows", controllers.WorkflowRuleCreate(svcs.Workflows, logg))
			r.Patch("/workflows/{workflowRuleID}", controllers.WorkflowRuleUpdate(svcs.Workflows, logg))
			r.Delete("/workflows/{workflowRuleID}", controllers.WorkflowRuleDeactivate(svcs.Workflows, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UserList(svcs.Users, logg))
				r.Post("/", controllers.UserCreate(svcs.Users, logg))
				r.Get("/{userID}", controllers.UserDetail(svcs.Users, logg))
				r.Patch("/{userID}", controllers.UserUpdate(svcs.Users, logg))
				r.Delete("/{userID}", controllers.UserDeactivate(svcs.Users, logg))
			})
		})
	})

	return r
}
