package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/unitandem/tandem-chat/internal/config"
	"github.com/unitandem/tandem-chat/internal/handlers"
	"github.com/unitandem/tandem-chat/internal/hub"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversation server",
		RunE:  runServe,
	}
	cmd.Flags().String("listen_addr", "127.0.0.1:3000", "address to serve on")
	cmd.Flags().String("log_level", "info", "log level")
	cmd.Flags().Bool("seed", false, "provision demo users, a room and a match request")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(afero.NewOsFs(), configPath, cmd.Flags())
	if err != nil {
		return err
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(cfg.Level())

	h := hub.New(log)
	go h.Run()

	matches := hub.NewMatchRegistry()
	if cfg.Seed {
		seed(h, matches)
		log.Info().Msg("seeded demo data")
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	api := &handlers.API{Hub: h, Matches: matches, Log: log}
	api.Register(app)

	log.Info().Str("addr", cfg.ListenAddr).Msg("serving")
	return app.Listen(cfg.ListenAddr)
}

// seed sets up two partnered users plus a pending request from a
// third, enough to point two chat clients at the server and talk.
func seed(h *hub.Hub, matches *hub.MatchRegistry) {
	h.RegisterUser(1, "Ali Connors")
	h.RegisterUser(2, "Remy Sharp")
	h.RegisterUser(3, "Travis Howard")
	_, _ = h.CreateRoom(1, 2)
	matches.Add(hub.MatchRequest{
		FromUser: 3,
		FromName: "Travis Howard",
		ToUser:   1,
		Teach:    "English",
		Learn:    "Finnish",
		City0:    "Helsinki",
		City1:    "Tampere",
	})
}
