package wire

import (
	"Opsboard/internal/api"
	"Opsboard/internal/api/config"
	"Opsboard/internal/api/handler"
	"Opsboard/internal/engine"
	"Opsboard/internal/job"
	"Opsboard/internal/pkg/cron"
	"Opsboard/internal/pkg/es"
	"Opsboard/internal/pkg/idcodec"
	"Opsboard/internal/pkg/kafka"
	"Opsboard/internal/pkg/mongo"
	"Opsboard/internal/repository"
	"Opsboard/internal/service"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	mongoDriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(
	db *gorm.DB,
	mongoDB *mongoDriver.Database,
	rdb *redis.Client,
	esClient *elasticsearch.TypedClient,
	cfg *config.Config,
) (*ApplicationContainer, error) {
	codec, err := idcodec.New(cfg.IDCodec)
	if err != nil {
		return nil, err
	}
	calc := engine.NewHotScoreCalculator(config.RankingSource{})

	store := repository.NewStore(db)
	sysBoxRepo := mongo.NewSysBoxRepo(mongoDB)
	operationESRepo := es.NewOperationRepo(esClient, cfg.Elastic.Indices.OperationIndex)

	rankService := service.NewRankService(rdb, cfg.Ranking.HotKeySize)
	userService := service.NewUserService(store)
	operationService := service.NewOperationService(store, codec, calc, rankService, operationESRepo)
	ratingService := service.NewRatingService(store, codec, calc, rankService)
	favoriteService := service.NewFavoriteService(store, codec)
	sysBoxService := service.NewSysBoxService(sysBoxRepo, store, codec)

	handlers := &api.HandlersGroup{
		OperationHandler: handler.NewOperationHandler(operationService),
		RatingHandler:    handler.NewRatingHandler(ratingService),
		FavoriteHandler:  handler.NewFavoriteHandler(favoriteService),
		SysBoxHandler:    handler.NewSysBoxHandler(sysBoxService),
		Users:            userService,
	}
	router := api.SetupRouter(handlers, cfg.Server, cfg.Log)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, store, sysBoxRepo, operationESRepo)
	if err != nil {
		return nil, err
	}

	reconcileJob := job.NewRankReconcileJob(operationService, rankService, rdb, cfg.Ranking.HotKeySize)
	cronMgr := cron.NewCronManager(cfg.Cron.ReconcileSpec, reconcileJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
