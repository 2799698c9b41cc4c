package main

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/unitandem/tandem-chat/internal/chat"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Connect to a conversation server as a user",
		RunE:  runChat,
	}
	cmd.Flags().String("server", "127.0.0.1:3000", "server host:port")
	cmd.Flags().Int64("user", 0, "user id to connect as")
	cmd.Flags().Int("peek", chat.DefaultPeekWords, "preview length in words")
	cmd.Flags().String("log_level", "warn", "log level")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	server, _ := cmd.Flags().GetString("server")
	user, _ := cmd.Flags().GetInt64("user")
	peekWords, _ := cmd.Flags().GetInt("peek")
	levelName, _ := cmd.Flags().GetString("log_level")

	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.WarnLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)

	u := url.URL{Scheme: "ws", Host: server, Path: "/api/ws/chat/" + strconv.FormatInt(user, 10)}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}

	registry := chat.NewRoomRegistry()
	session := chat.NewSession(conn, registry, log)
	controller := chat.NewActiveRoomController(registry, session)
	composer := chat.NewComposer(controller, session)

	session.OnChange = func(id chat.RoomID) {
		active, ok := controller.Active()
		if !ok || id != active {
			return
		}
		room, _ := registry.Get(id)
		if last, ok := room.Store.Last(); ok && !last.Author.IsLocal() {
			fmt.Printf("%s: %s\n", room.DisplayName, last.Text)
		}
	}
	session.Open()
	defer func() {
		controller.Reset()
		_ = session.Close()
	}()

	fmt.Println("connected; /rooms to list, /open <n>, /close, /quit, anything else sends")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "/quit":
			return nil
		case line == "/rooms":
			i := 0
			for room := range registry.All() {
				fmt.Printf("%d) %s — %s\n", i, room.Title, chat.Peek(room.Store, peekWords))
				i++
			}
			if i == 0 {
				fmt.Println("no conversations yet")
			}
		case line == "/close":
			if active, ok := controller.Active(); ok {
				controller.Select(active)
				fmt.Println("conversation closed")
			}
		case strings.HasPrefix(line, "/open "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/open ")))
			if err != nil {
				fmt.Println("usage: /open <n>")
				continue
			}
			rooms := registry.Rooms()
			if n < 0 || n >= len(rooms) {
				fmt.Println("no such conversation")
				continue
			}
			if active, ok := controller.Active(); ok && active == rooms[n].ID {
				controller.Select(active) // re-selecting the open room closes it
				fmt.Println("conversation closed")
				continue
			}
			controller.Select(rooms[n].ID)
			fmt.Println("--", rooms[n].Title, "--")
			for _, m := range rooms[n].Store.Snapshot() {
				name := rooms[n].DisplayName
				if m.Author.IsLocal() {
					name = "me"
				}
				fmt.Printf("%s: %s\n", name, m.Text)
			}
		default:
			composer.SetDraft(line)
			composer.Submit()
		}
	}
	return scanner.Err()
}
