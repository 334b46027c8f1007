package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/oksasatya/adcart-backend/config"
	"github.com/oksasatya/adcart-backend/internal/application"
	"github.com/oksasatya/adcart-backend/pkg/helpers"
	"github.com/oksasatya/adcart-backend/pkg/metrics"
)

// app-level container to share constructed components across packages.
// The router wires modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoDB     *mongo.Database
	redisClient *redis.Client
	objectStore application.ObjectStore

	jwtManager *helpers.JWTManager

	rabbitPub  *helpers.RabbitPublisher
	notifier   application.OrderNotifier
	appMetrics *metrics.Metrics
)

func SetConfig(c *config.Config)               { cfg = c }
func GetConfig() *config.Config                { return cfg }
func SetLogger(l *logrus.Logger)               { logger = l }
func GetLogger() *logrus.Logger                { return logger }
func SetMongo(db *mongo.Database)              { mongoDB = db }
func GetMongo() *mongo.Database                { return mongoDB }
func SetRedis(r *redis.Client)                 { redisClient = r }
func GetRedis() *redis.Client                  { return redisClient }
func SetObjectStore(s application.ObjectStore) { objectStore = s }
func GetObjectStore() application.ObjectStore  { return objectStore }
func SetJWT(m *helpers.JWTManager)             { jwtManager = m }
func GetJWT() *helpers.JWTManager              { return jwtManager }
func SetRabbitPub(p *helpers.RabbitPublisher)  { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher   { return rabbitPub }
func SetNotifier(n application.OrderNotifier)  { notifier = n }
func GetNotifier() application.OrderNotifier   { return notifier }
func SetMetrics(m *metrics.Metrics)            { appMetrics = m }
func GetMetrics() *metrics.Metrics             { return appMetrics }
