package main

import (
	"bytes"
	"cardadvisor-telegram-bot/config"
	"cardadvisor-telegram-bot/internal/advisor"
	"cardadvisor-telegram-bot/internal/cards"
	"cardadvisor-telegram-bot/internal/history"
	"cardadvisor-telegram-bot/internal/state"
	"cardadvisor-telegram-bot/internal/telegram"
	"fmt"
	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
)

type BotMetrics struct {
	MessagesHandled   prometheus.Counter
	CommandsProcessed prometheus.Counter
	CallbacksHandled  prometheus.Counter
	ChatsCount        prometheus.Gauge
	ChatsSet          map[int64]struct{}
	Mutex             sync.Mutex
}

var (
	metrics = NewBotMetrics()
)

func init() {
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	metrics := &BotMetrics{
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardadvisor",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled chat messages",
		}),
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardadvisor",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		CallbacksHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cardadvisor",
			Subsystem: "telegram_bot",
			Name:      "callbacks_handled",
			Help:      "The total number of handled inline-button presses",
		}),
		ChatsCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cardadvisor",
			Subsystem: "telegram_bot",
			Name:      "chats_count",
			Help:      "The current number of unique chats the bot has seen",
		}),
		ChatsSet: make(map[int64]struct{}),
	}

	prometheus.MustRegister(metrics.MessagesHandled)
	prometheus.MustRegister(metrics.CommandsProcessed)
	prometheus.MustRegister(metrics.CallbacksHandled)
	prometheus.MustRegister(metrics.ChatsCount)

	return metrics
}

func main() {
	gotext.Configure("locales", strings.ToLower(config.GetString("lang")), "default")

	token := config.GetString("telegram_bot_token")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	stateStore := state.Load(config.GetString("state_file"))

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          token,
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	},
		advisor.NewClient(config.GetString("advisor_url")),
		history.NewStore(),
		stateStore,
		cards.NewRegistry(),
	)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(bot, updates)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

func handleUpdates(bot *telegram.Bot, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		handleUpdate(bot, update)
	}
}

func handleUpdate(bot *telegram.Bot, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		metrics.CallbacksHandled.Inc()
		bot.HandleCallbackQuery(update.CallbackQuery)

	case update.Message == nil:
		log.Debug("Received non-message update")

	case update.Message.IsCommand():
		metrics.CommandsProcessed.Inc()
		trackChat(update.Message.Chat.ID)
		bot.HandleCommand(update)

	default:
		metrics.MessagesHandled.Inc()
		trackChat(update.Message.Chat.ID)
		bot.HandleMessage(update.Message)
	}
}

func trackChat(chatID int64) {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	if _, exists := metrics.ChatsSet[chatID]; !exists {
		metrics.ChatsSet[chatID] = struct{}{}
		metrics.ChatsCount.Set(float64(len(metrics.ChatsSet)))
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), r)
}
