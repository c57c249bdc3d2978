package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/app"
	"github.com/matheus3301/msgr/internal/auth"
	"github.com/matheus3301/msgr/internal/config"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/session"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type env struct {
	m       *messenger.Messenger
	sess    *auth.Session
	cfg     *config.Config
	cfgPath string
	json    bool
}

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	apiFlag := flag.String("api", "", "API base URL (overrides config api_base)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	verboseFlag := flag.Bool("verbose", false, "also log to stderr")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfgPath := session.ConfigPath()
	cfg := config.LoadOrDefault(cfgPath)
	sessionName := session.Resolve(*sessionFlag, cfg)
	if err := session.ValidateName(sessionName); err != nil {
		fail(err)
	}

	// Chat commands need the classic layout; everything else runs on full.
	layout := messenger.LayoutFull
	switch args[0] {
	case "chats", "messages", "send", "unread":
		layout = messenger.LayoutClassic
	}
	level := zapcore.WarnLevel
	if *verboseFlag {
		level = zapcore.DebugLevel
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	e := &env{cfg: cfg, cfgPath: cfgPath, json: *jsonFlag}
	stop, err := app.Start(ctx, app.Params{
		SessionName: sessionName,
		APIBase:     cfg.API(*apiFlag),
		Layout:      layout,
		Owner:       "msgrctl",
		Console:     *verboseFlag,
		Level:       level,
	}, &e.m, &e.sess)
	if err != nil {
		fail(err)
	}
	code := run(ctx, e, args)
	if err := stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: msgrctl [--session <name>] [--api <url>] [--json] [--verbose] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login [email]               Sign in (password read from the terminal or MSGR_PASSWORD)")
	fmt.Fprintln(os.Stderr, "  register <nick> <email>     Create an account and sign in")
	fmt.Fprintln(os.Stderr, "  logout                      Sign out and drop cached data")
	fmt.Fprintln(os.Stderr, "  whoami                      Show the signed-in profile")
	fmt.Fprintln(os.Stderr, "  favorites                   List favorites")
	fmt.Fprintln(os.Stderr, "  favorites add <text>        Save a text favorite")
	fmt.Fprintln(os.Stderr, "  favorites upload <path>     Upload a file and save it as a favorite")
	fmt.Fprintln(os.Stderr, "  search <nick>               Look a user up")
	fmt.Fprintln(os.Stderr, "  nick <name>                 Change the display name, keeping the tag")
	fmt.Fprintln(os.Stderr, "  avatar <path>               Upload a new avatar image")
	fmt.Fprintln(os.Stderr, "  chats                       List chats with unread counts")
	fmt.Fprintln(os.Stderr, "  messages <nick>             Show the conversation with a user")
	fmt.Fprintln(os.Stderr, "  send <nick> <text>          Send a direct message")
	fmt.Fprintln(os.Stderr, "  unread                      Show unread counts")
}

func run(ctx context.Context, e *env, args []string) int {
	var err error
	switch args[0] {
	case "login":
		err = cmdLogin(ctx, e, args[1:])
	case "register":
		err = cmdRegister(ctx, e, args[1:])
	case "logout":
		err = cmdLogout(ctx, e)
	case "whoami":
		err = cmdWhoami(ctx, e)
	case "favorites", "fav":
		err = cmdFavorites(ctx, e, args[1:])
	case "search":
		err = cmdSearch(ctx, e, args[1:])
	case "nick":
		err = cmdNick(ctx, e, args[1:])
	case "avatar":
		err = cmdAvatar(ctx, e, args[1:])
	case "chats":
		err = cmdChats(ctx, e)
	case "messages":
		err = cmdMessages(ctx, e, args[1:])
	case "send":
		err = cmdSend(ctx, e, args[1:])
	case "unread":
		err = cmdUnread(ctx, e)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

type usageError string

func (u usageError) Error() string { return "usage: msgrctl " + string(u) }

func requireAuth(e *env) error {
	if !e.sess.Authenticated() {
		return errors.New("not signed in, run: msgrctl login")
	}
	return nil
}

func cmdLogin(ctx context.Context, e *env, args []string) error {
	email := e.cfg.Email
	if len(args) > 0 {
		email = args[0]
	}
	if email == "" {
		var err error
		if email, err = prompt("Email: "); err != nil {
			return err
		}
	}
	password, err := readPassword()
	if err != nil {
		return err
	}
	if err := e.sess.Login(ctx, email, password); err != nil {
		return err
	}
	rememberEmail(e, email)
	return printUser(e)
}

func cmdRegister(ctx context.Context, e *env, args []string) error {
	if len(args) < 2 {
		return usageError("register <nick> <email>")
	}
	password, err := readPassword()
	if err != nil {
		return err
	}
	if err := e.sess.Register(ctx, args[0], args[1], password); err != nil {
		return err
	}
	rememberEmail(e, args[1])
	return printUser(e)
}

func rememberEmail(e *env, email string) {
	if email == "" || email == e.cfg.Email {
		return
	}
	e.cfg.Email = email
	if err := config.Save(e.cfgPath, e.cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save config: %v\n", err)
	}
}

func cmdLogout(ctx context.Context, e *env) error {
	if !e.sess.Authenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	if err := e.m.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func cmdWhoami(ctx context.Context, e *env) error {
	if err := requireAuth(e); err != nil {
		return err
	}
	if _, err := e.sess.FetchUserProfile(ctx); err != nil {
		return err
	}
	return printUser(e)
}

func printUser(e *env) error {
	u := e.sess.User()
	if u == nil {
		return errors.New("profile unavailable")
	}
	if e.json {
		return outputJSON(u)
	}
	fmt.Printf("Nick:    %s\n", u.Nick)
	fmt.Printf("Name:    %s\n", messenger.DisplayName(u.Nick))
	fmt.Printf("User ID: %s\n", u.UserID)
	if u.Avatar != "" {
		fmt.Printf("Avatar:  %s\n", e.sess.API().ResolveURL(u.Avatar))
	}
	return nil
}

func cmdFavorites(ctx context.Context, e *env, args []string) error {
	if err := requireAuth(e); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		if err := e.m.LoadFavorites(ctx); err != nil {
			return err
		}
	case "add":
		if len(args) < 2 {
			return usageError("favorites add <text>")
		}
		e.m.SetDraft(strings.Join(args[1:], " "))
		if err := e.m.AddToFavorites(ctx); err != nil {
			return err
		}
	case "upload":
		if len(args) < 2 {
			return usageError("favorites upload <path>")
		}
		if err := withFile(args[1], func(name string, f *os.File) error {
			return e.m.HandleFileUpload(ctx, name, f)
		}); err != nil {
			return err
		}
	default:
		return usageError("favorites [list|add <text>|upload <path>]")
	}
	return printFavorites(e, e.m.Favorites())
}

func printFavorites(e *env, favs []api.Favorite) error {
	if e.json {
		return outputJSON(favs)
	}
	if len(favs) == 0 {
		fmt.Println("No favorites.")
		return nil
	}
	var prev float64
	for i, f := range favs {
		if i == 0 || !messenger.SameDay(prev, f.Timestamp) {
			fmt.Printf("-- %s --\n", messenger.FormatDate(f.Timestamp))
		}
		prev = f.Timestamp
		line := f.Text
		switch messenger.RenderKindOf(f) {
		case messenger.RenderFile:
			line = fmt.Sprintf("%s <%s>", f.Text, e.sess.API().ResolveURL(f.FileURL))
		case messenger.RenderVoice:
			line = fmt.Sprintf("Voice message <%s>", e.sess.API().ResolveURL(f.VoiceURL))
		}
		fmt.Printf("%s  %s\n", messenger.FormatTime(f.Timestamp), line)
	}
	return nil
}

func cmdSearch(ctx context.Context, e *env, args []string) error {
	if len(args) < 1 {
		return usageError("search <nick>")
	}
	if err := e.m.SearchUsers(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	results := e.m.Results()
	if e.json {
		return outputJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("No user found.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%-4s %-30s %s\n", messenger.Initials(r.Nick), r.Nick, messenger.Presence(r))
	}
	return nil
}

func cmdNick(ctx context.Context, e *env, args []string) error {
	if err := requireAuth(e); err != nil {
		return err
	}
	if len(args) < 1 {
		return usageError("nick <name>")
	}
	if err := e.m.OpenSettings(); err != nil {
		return err
	}
	if err := e.m.BeginNicknameEdit(); err != nil {
		return err
	}
	if err := e.m.SetNickDraft(strings.Join(args, " ")); err != nil {
		return err
	}
	if err := e.m.UpdateNickname(ctx); err != nil {
		return err
	}
	return printUser(e)
}

func cmdAvatar(ctx context.Context, e *env, args []string) error {
	if err := requireAuth(e); err != nil {
		return err
	}
	if len(args) < 1 {
		return usageError("avatar <path>")
	}
	if err := withFile(args[0], func(name string, f *os.File) error {
		return e.m.HandleAvatarUpload(ctx, name, f)
	}); err != nil {
		return err
	}
	return printUser(e)
}

func cmdChats(ctx context.Context, e *env) error {
	if err := requireAuth(e); err != nil {
		return err
	}
	if err := e.m.LoadUnread(ctx); err != nil {
		return err
	}
	chats, unread := e.m.Chats(), e.m.Unread()
	if e.json {
		type chat struct {
			Nick   string `json:"nick"`
			Unread int    `json:"unread"`
		}
		out := make([]chat, 0, len(chats))
		for _, n := range chats {
			out = append(out, chat{Nick: n, Unread: unread[n]})
		}
		return outputJSON(out)
	}
	if len(chats) == 0 {
		fmt.Println("No chats.")
		return nil
	}
	for _, n := range chats {
		fmt.Printf("%-30s %d\n", n, unread[n])
	}
	return nil
}

func cmdMessages(ctx context.Context, e *env, args []string) error {
	if err := requireAuth(e); err != nil {
		return err
	}
	if len(args) < 1 {
		return usageError("messages <nick>")
	}
	if err := e.m.AddUserToChats(args[0]); err != nil {
		return err
	}
	if err := e.m.LoadMessages(ctx); err != nil {
		return err
	}
	return printConversation(e, args[0], e.m.Conversation())
}

func printConversation(e *env, nick string, conv api.Conversation) error {
	if e.json {
		return outputJSON(conv)
	}
	status := "offline"
	if conv.FriendOnline {
		status = "online"
	} else if conv.FriendLastOnline != nil {
		status = "last seen " + messenger.FormatDate(*conv.FriendLastOnline) + " " + messenger.FormatTime(*conv.FriendLastOnline)
	}
	fmt.Printf("%s (%s)\n", nick, status)
	for _, m := range conv.Messages {
		fmt.Printf("%s  %-20s %s\n", messenger.FormatTime(m.Timestamp), messenger.DisplayName(m.From), m.Text)
	}
	return nil
}

func cmdSend(ctx context.Context, e *env, args []string) error {
	if err := requireAuth(e); err != nil {
		return err
	}
	if len(args) < 2 {
		return usageError("send <nick> <text>")
	}
	if err := e.m.AddUserToChats(args[0]); err != nil {
		return err
	}
	e.m.SetDraft(strings.Join(args[1:], " "))
	if err := e.m.SendMessage(ctx); err != nil {
		return err
	}
	return printConversation(e, args[0], e.m.Conversation())
}

func cmdUnread(ctx context.Context, e *env) error {
	if err := requireAuth(e); err != nil {
		return err
	}
	if err := e.m.LoadUnread(ctx); err != nil {
		return err
	}
	unread := e.m.Unread()
	if e.json {
		return outputJSON(unread)
	}
	if len(unread) == 0 {
		fmt.Println("No unread messages.")
		return nil
	}
	for _, n := range e.m.Chats() {
		if c := unread[n]; c > 0 {
			fmt.Printf("%-30s %d\n", n, c)
		}
	}
	return nil
}

func withFile(path string, fn func(name string, f *os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return fn(filepath.Base(path), f)
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads from MSGR_PASSWORD, the terminal without echo, or a
// piped stdin line, in that order.
func readPassword() (string, error) {
	if pw := os.Getenv("MSGR_PASSWORD"); pw != "" {
		return pw, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt("")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
