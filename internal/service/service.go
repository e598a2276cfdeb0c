// Package service implements the REST API of the contacts service: a gin router on top of the
// store, with one list/create/get/update/delete surface per entity, the inline editors of a
// human, the email consume action and the spreadsheet export.
package service

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/config"
	"gitlab.com/nmadb/contacts/internal/logger"
	"gitlab.com/nmadb/contacts/internal/metrics"
	"gitlab.com/nmadb/contacts/internal/model"
	"gitlab.com/nmadb/contacts/internal/store"
	"go.uber.org/zap"
)

// db is a handle to the database.
var db *sqlx.DB

// contacts is the data access layer on top of db.
var contacts *store.Store

// serviceMetrics are the Prometheus metrics of the router that was set up last.
var serviceMetrics *metrics.Metrics

// CreateDatabase opens a connection pool to the database described by cfg.
func CreateDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return sqlDB, nil
}

// SetupDatabaseWrapper initializes the sqlx database wrapper with the specified sql database. It
// then prepares all statements. The database argument can be a real database for production use
// or a mock database within unit tests.
func SetupDatabaseWrapper(sqlDB *sql.DB) error {
	db = sqlx.NewDb(sqlDB, "mysql")
	var err error
	contacts, err = store.New(db)
	return err
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. The database
// wrapper must be set up first.
func SetupHttpRouter(cfg config.HTTPConfig, log *zap.Logger) *gin.Engine {
	registerValidators()
	serviceMetrics = metrics.New()

	if !cfg.RequestLogging {
		log.Info("Turning off HTTP request logging.")
	}
	router := gin.New()
	router.Use(
		logger.RequestID(),
		logger.Middleware(log, cfg.RequestLogging),
		logger.Recovery(log),
		serviceMetrics.Middleware(),
	)

	router.GET("/healthz", healthz)
	router.GET("/metrics", gin.WrapH(serviceMetrics.Handler()))

	router.GET("/humans", findHumans)
	router.POST("/humans", createHuman)
	router.GET("/humans/:id", findHumanByID)
	router.PUT("/humans/:id", updateHumanByID)
	router.DELETE("/humans/:id", deleteHumanByID)
	router.GET("/humans/:id/contract-info", findContractInfoOfHuman)
	router.PUT("/humans/:id/contract-info", putContractInfoOfHuman)
	router.DELETE("/humans/:id/contract-info", deleteContractInfoOfHuman)
	router.GET("/exports/humans", exportHumans)

	municipalities := resource[model.Municipality]{
		admin:  admin.Municipalities,
		list:   contacts.ListMunicipalities,
		get:    contacts.GetMunicipality,
		update: contacts.UpdateMunicipality,
		remove: contacts.DeleteMunicipality,
		view:   municipalityView,
	}
	municipalities.register(router, "/municipalities")
	router.POST("/municipalities", createMunicipality)

	addresses := resource[model.Address]{
		admin:  admin.Addresses,
		list:   contacts.ListAddresses,
		get:    contacts.GetAddress,
		update: contacts.UpdateAddress,
		remove: contacts.DeleteAddress,
	}
	addresses.register(router, "/addresses")
	addresses.registerInline(router, "/humans/:id/addresses", contacts.CreateAddress)

	phones := resource[model.Phone]{
		admin:  admin.Phones,
		list:   contacts.ListPhones,
		get:    contacts.GetPhone,
		update: contacts.UpdatePhone,
		remove: contacts.DeletePhone,
	}
	phones.register(router, "/phones")
	phones.registerInline(router, "/humans/:id/phones", contacts.CreatePhone)

	emails := resource[model.Email]{
		admin:  admin.Emails,
		list:   contacts.ListEmails,
		get:    contacts.GetEmail,
		update: contacts.UpdateEmail,
		remove: contacts.DeleteEmail,
	}
	emails.register(router, "/emails")
	emails.registerInline(router, "/humans/:id/emails", contacts.CreateEmail)
	router.POST("/emails/:id/consume", consumeEmail)

	institutions := resource[model.Institution]{
		admin:  admin.Institutions,
		list:   contacts.ListInstitutions,
		get:    contacts.GetInstitution,
		update: contacts.UpdateInstitution,
		remove: contacts.DeleteInstitution,
	}
	institutions.register(router, "/institutions")
	institutions.registerInline(router, "/humans/:id/institutions", contacts.CreateInstitution)

	contractInfos := resource[model.InfoForContracts]{
		admin:  admin.ContractInfos,
		list:   contacts.ListContractInfos,
		get:    contacts.GetContractInfoById,
		update: contacts.UpdateContractInfoById,
		remove: contacts.DeleteContractInfoById,
	}
	contractInfos.register(router, "/contract-infos")

	return router
}

// healthz responds with 200 if the database can be reached and with 503 otherwise.
//
// Example REST API call:
//
//	> curl http://localhost:8080/healthz
func healthz(c *gin.Context) {
	if err := contacts.Ping(c.Request.Context()); err != nil {
		logger.FromContext(c).Warn("database ping failed", zap.Error(err))
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok"})
}
