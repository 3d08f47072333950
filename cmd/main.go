package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	tracer "wallet_tracer_back"
	"wallet_tracer_back/pkg/chainclient"
	"wallet_tracer_back/pkg/handler"
	"wallet_tracer_back/pkg/notify"
	"wallet_tracer_back/pkg/ratelimit"
	"wallet_tracer_back/pkg/repository"
	"wallet_tracer_back/pkg/service"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.Infoln("Запуск сервера")
	if err := godotenv.Load(); err != nil {
		logrus.Infof("Ошибка инициализации переменных окружения .env: %s", err)
	}

	if err := InitConfig(); err != nil {
		logrus.Fatalf("Ошибка (viper) при инициализации конфига .yml: %s", err.Error())
	}
	if level, err := logrus.ParseLevel(viper.GetString("log.level")); err == nil {
		logrus.SetLevel(level)
	}
	logrus.Infoln("Конфиг YAML инициализирован")

	// один лимитер на весь процесс: квота эксплореров общая для всех задач
	limiter := ratelimit.NewLimiter(viper.GetFloat64("tracer.rate_per_second"))
	timeout := viper.GetDuration("http.timeout")

	clients := chainclient.NewRegistry(
		chainclient.NewERC20Client(chainclient.Config{
			BaseURL: viper.GetString("etherscan.base_url"),
			APIKey:  os.Getenv("ETHERSCAN_API_KEY"),
			Timeout: timeout,
		}, limiter),
		chainclient.NewTronClient(chainclient.Config{
			BaseURL: viper.GetString("tronscan.base_url"),
			APIKey:  os.Getenv("TRONSCAN_API_KEY"),
			Timeout: timeout,
		}, limiter),
	)

	notifier := notify.New(notify.Config{
		Driver:           viper.GetString("notify.driver"),
		From:             viper.GetString("notify.from"),
		To:               viper.GetString("notify.to"),
		MailjetAPIKey:    os.Getenv("MAILJET_API_KEY"),
		MailjetSecretKey: os.Getenv("MAILJET_SECRET_KEY"),
		SMTPHost:         viper.GetString("smtp.host"),
		SMTPPort:         viper.GetInt("smtp.port"),
		SMTPUsername:     viper.GetString("smtp.username"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
	})

	repos := repository.NewRepository()
	service := service.NewService(repos, clients, notifier, service.Config{
		DepthLimit: viper.GetInt("tracer.depth_limit"),
		FetchCache: viper.GetBool("tracer.fetch_cache"),
	})
	handler := handler.NewHandler(service, viper.GetStringSlice("cors.allow_origins"))

	srv := new(tracer.Server)
	go func() {
		if err := srv.Run(viper.GetString("port"), handler.InitRoute()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Ошибка при запуске сервера: %s", err)
		}
	}()
	logrus.Infof("Сервер слушает порт %s", viper.GetString("port"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Infoln("Остановка сервера")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Ошибка при остановке сервера: %s", err)
	}
}

func InitConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("tracer.depth_limit", 7)
	viper.SetDefault("tracer.rate_per_second", ratelimit.DefaultRate)
	viper.SetDefault("tracer.fetch_cache", false)
	viper.SetDefault("etherscan.base_url", chainclient.EtherscanAPI)
	viper.SetDefault("tronscan.base_url", chainclient.TronScanAPI)
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("notify.driver", notify.DriverNone)
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("port", "8000")

	if err := viper.BindEnv("port", "PORT"); err != nil {
		return err
	}
	return viper.ReadInConfig()
}
