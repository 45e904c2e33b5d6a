package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"arka.dev/learnhub/internal/config"
	"arka.dev/learnhub/internal/entity"
	"arka.dev/learnhub/internal/middleware"
	"arka.dev/learnhub/internal/ownership"

	courseHttp "arka.dev/learnhub/internal/modules/course/delivery/http"
	courseRepo "arka.dev/learnhub/internal/modules/course/repository"
	courseService "arka.dev/learnhub/internal/modules/course/service"

	lessonHttp "arka.dev/learnhub/internal/modules/lesson/delivery/http"
	lessonRepo "arka.dev/learnhub/internal/modules/lesson/repository"
	lessonService "arka.dev/learnhub/internal/modules/lesson/service"

	topicHttp "arka.dev/learnhub/internal/modules/topic/delivery/http"
	topicRepo "arka.dev/learnhub/internal/modules/topic/repository"
	topicService "arka.dev/learnhub/internal/modules/topic/service"

	userHttp "arka.dev/learnhub/internal/modules/user/delivery/http"
	userRepo "arka.dev/learnhub/internal/modules/user/repository"
	userService "arka.dev/learnhub/internal/modules/user/service"

	viewService "arka.dev/learnhub/internal/modules/view/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	views  viewService.ViewService
}

func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Server {
	users := userRepo.NewUserRepository(db)
	courses := courseRepo.NewCourseRepository(db)
	lessons := lessonRepo.NewLessonRepository(db)
	topics := topicRepo.NewTopicRepository(db)

	resolver := ownership.NewResolver(courses, lessons, topics)

	authSvc := userService.NewAuthService(users, cfg)
	followSvc := userService.NewFollowService(users)
	authHandler := userHttp.NewAuthHandler(authSvc, followSvc, log)

	viewSvc := viewService.NewViewService(rdb, courses, cfg.ViewSyncInterval, log)

	courseSvc := courseService.NewCourseService(courses, users, resolver)
	catalogSvc := courseService.NewCatalogService(courses, users, viewSvc, log)
	courseHandler := courseHttp.NewCourseHandler(courseSvc, log)
	catalogHandler := courseHttp.NewCatalogHandler(catalogSvc, log)

	lessonSvc := lessonService.NewLessonService(lessons, resolver)
	lessonHandler := lessonHttp.NewLessonHandler(lessonSvc, log)

	topicSvc := topicService.NewTopicService(topics, resolver)
	topicHandler := topicHttp.NewTopicHandler(topicSvc, log)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	setupCORS(router, cfg)

	authMiddleware := middleware.NewAuthMiddleware(cfg)
	rateLimit := middleware.RateLimitMutations(rdb, cfg.RateLimitMutation)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		profile := auth.Group("")
		profile.Use(authMiddleware.RequireAuth())
		{
			profile.GET("/profile", authHandler.GetProfile)
			profile.PUT("/profile", authHandler.UpdateProfile)
			profile.PUT("/change-password", authHandler.ChangePassword)
		}
	}

	teacher := api.Group("/teacher")
	teacher.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(entity.RoleTeacher), rateLimit)
	{
		teacher.POST("/courses", courseHandler.Create)
		teacher.GET("/courses", courseHandler.List)
		teacher.GET("/courses/:courseId", courseHandler.Details)
		teacher.PUT("/courses/:courseId", courseHandler.Update)
		teacher.DELETE("/courses/:courseId", courseHandler.Delete)
		teacher.GET("/courses/:courseId/analytics", courseHandler.Analytics)

		teacher.POST("/courses/:courseId/lessons", lessonHandler.Create)
		teacher.GET("/courses/:courseId/lessons", lessonHandler.List)
		teacher.GET("/lessons/:lessonId", lessonHandler.Details)
		teacher.PUT("/lessons/:lessonId", lessonHandler.Update)
		teacher.DELETE("/lessons/:lessonId", lessonHandler.Delete)

		teacher.POST("/lessons/:lessonId/topics", topicHandler.Create)
		teacher.GET("/lessons/:lessonId/topics", topicHandler.List)
		teacher.PUT("/topics/:topicId", topicHandler.Update)
		teacher.DELETE("/topics/:topicId", topicHandler.Delete)
	}

	student := api.Group("/student")
	student.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(entity.RoleStudent), rateLimit)
	{
		student.GET("/courses", catalogHandler.List)
		student.GET("/courses/:courseId", catalogHandler.Details)
		student.POST("/courses/:courseId/enroll", catalogHandler.Enroll)
		student.GET("/enrolled-courses", catalogHandler.EnrolledCourses)
		student.POST("/courses/:courseId/like", catalogHandler.Like)

		student.POST("/teachers/:teacherId/follow", authHandler.FollowTeacher)
		student.DELETE("/teachers/:teacherId/follow", authHandler.UnfollowTeacher)
		student.GET("/followed-teachers", authHandler.FollowedTeachers)
	}

	return &Server{engine: router, views: viewSvc}
}

// StartWorkers launches background jobs; they stop when ctx is cancelled.
func (s *Server) StartWorkers(ctx context.Context) {
	go s.views.StartSyncWorker(ctx)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := strings.Split(cfg.AllowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
