package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/skycastapp/skycast/internal/app"
	"github.com/skycastapp/skycast/internal/httpapi"
	"github.com/skycastapp/skycast/internal/httputil"
	"github.com/skycastapp/skycast/internal/owm"
)

var cli struct {
	Addr            string        `env:"SKYCAST_ADDR" default:":8080" help:"HTTP listen address."`
	OWMAPIKey       string        `env:"OWM_API_KEY" required:"" help:"OpenWeatherMap API key."`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY" help:"OpenAI API key; enables voice search when set."`
	SuggestDebounce time.Duration `env:"SKYCAST_SUGGEST_DEBOUNCE" default:"500ms" help:"Quiet period before suggestion fetches."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("skycast"),
		kong.Description("Weather search service: city suggestions, current conditions, 5-day forecast, voice input."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	provider := owm.New(cli.OWMAPIKey, owm.WithHTTPClient(httputil.NewClient()))
	ctrl := app.NewController(provider, app.WithSuggestDebounce(cli.SuggestDebounce))

	var opts []httpapi.Option
	if cli.OpenAIAPIKey != "" {
		opts = append(opts, httpapi.WithOpenAIKey(cli.OpenAIAPIKey))
	} else {
		log.Println("OPENAI_API_KEY not set; voice search disabled")
	}
	srv := httpapi.New(ctrl, provider, opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go ctrl.Run(ctx)

	httpServer := &http.Server{
		Addr:         cli.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting server on %s", cli.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}
}
