// Package bot is the interactive surface for the playing group: a Telegram
// bot for entering scores and quarters, invoking Float/Option/Duncan,
// offering and answering doubles (and completing holes).
package bot

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"

	"wolfgoatpig/internal/api"
	"wolfgoatpig/internal/cache"
	"wolfgoatpig/internal/config"
	"wolfgoatpig/internal/engine"
	"wolfgoatpig/internal/game"
	"wolfgoatpig/internal/logger"
	"wolfgoatpig/internal/outbox"
)

// Deps are the wired collaborators the bot commands act on.
type Deps struct {
	Config  *config.Config
	Session *game.Session
	Manager *outbox.Manager
	Client  *api.Client
	Courses *cache.CourseStore
	Stats   *cache.StatsCache
}

// formatQuarters formats a quarter total with its sign.
func formatQuarters(q int) string {
	return fmt.Sprintf("%+d", q)
}

// StartBot initializes and starts the Telegram bot. Blocks until the bot
// stops polling.
func StartBot(d Deps) {
	if d.Config.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}

	b, err := telebot.NewBot(telebot.Settings{
		Token: d.Config.TelegramToken,
		Poller: &telebot.LongPoller{
			Timeout: 10,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	gameID := d.Session.GameID()

	// Register /start command handler
	b.Handle("/start", func(c telebot.Context) error {
		logger.Debug(gameID, "command_start", fmt.Sprintf("username=%s", c.Sender().Username))

		var names []string
		for _, p := range d.Session.Players() {
			names = append(names, p.Name)
		}
		welcome := fmt.Sprintf("🐺🐐🐷 Wolf Goat Pig keeper is on the tee!\n\n"+
			"Playing group: %s\n"+
			"Current hole: %d\n\n"+
			"Use /help for the full command list.",
			strings.Join(names, ", "), d.Session.Phase().CurrentHole)
		return c.Send(welcome)
	})

	// Register /help command handler
	b.Handle("/help", func(c telebot.Context) error {
		logger.Debug(gameID, "command_help", "")
		helpText := "📚 *Available Commands*\n\n" +
			"/game - Current hole, wager and teams\n" +
			"/standings - Quarters per player\n" +
			"/status - Sync status\n\n" +
			"*Betting*\n" +
			"/double <from> <to> - Offer a double\n" +
			"/accept <player> - Accept the offer\n" +
			"/decline <player> - Decline the offer\n" +
			"/float <player> - Captain floats\n" +
			"/option <player> - Invoke the option\n" +
			"/optionoff - Turn the option off\n" +
			"/duncan <player> - Solo captain's duncan\n" +
			"/joes <player> <quarters> - Goat sets the hoepfinger wager\n\n" +
			"*Teams*\n" +
			"/team <player> - Toggle into team 1\n" +
			"/captain <player> - Solo captain (repeat to deselect)\n" +
			"/solo - Solo mode\n" +
			"/partners - Partners mode\n\n" +
			"*Scoring*\n" +
			"/score <player> <strokes>\n" +
			"/quarters <player> <amount>\n" +
			"/winner <team1|team2|captain|opponents|push>\n" +
			"/complete - Finalize the hole\n" +
			"/edit <hole> <player> <strokes> <quarters> - Correct a past hole\n" +
			"/editwinner <hole> <winner> - Correct a past hole's outcome\n\n" +
			"*League*\n" +
			"/sync - Force a sync flush\n" +
			"/courses - Course catalog\n" +
			"/signups [week-start] - Weekly signups\n" +
			"/stats <player> - Player statistics"
		return c.Send(helpText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	// Register /game command handler
	b.Handle("/game", func(c telebot.Context) error {
		logger.Debug(gameID, "command_game", "")

		phase := d.Session.Phase()
		betting := d.Session.Betting()
		teams := d.Session.Teams()

		text := fmt.Sprintf("⛳ *Hole %d* (%s)\n\n"+
			"Wager: %d quarters\n"+
			"Captain: %s",
			phase.CurrentHole, phase.Phase, betting.CurrentWager, playerName(d.Session, teams.CurrentCaptain()))
		if betting.CarryOver {
			text += "\n🔁 Carry-over pending"
		}
		if phase.IsHoepfinger {
			text += fmt.Sprintf("\n🐐 Goat: %s", playerName(d.Session, phase.GoatID))
		}
		if offer := d.Session.PendingOffer(); offer != nil {
			text += fmt.Sprintf("\n⚡ Double offered by %s", playerName(d.Session, offer.From))
		}
		switch teams.Mode {
		case engine.ModeSolo:
			if teams.Captain != "" {
				text += fmt.Sprintf("\n\n👤 %s vs the field", playerName(d.Session, teams.Captain))
			}
		default:
			if len(teams.Team1) > 0 {
				text += fmt.Sprintf("\n\n👥 Team 1: %s\n👥 Team 2: %s",
					playerNames(d.Session, teams.Team1), playerNames(d.Session, teams.Team2()))
			}
		}
		return c.Send(text, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	// Register /standings command handler
	b.Handle("/standings", func(c telebot.Context) error {
		logger.Debug(gameID, "command_standings", "")

		standings := d.Session.Standings()
		players := d.Session.Players()
		sort.SliceStable(players, func(i, j int) bool {
			return standings[players[i].ID].Quarters > standings[players[j].ID].Quarters
		})

		text := fmt.Sprintf("🏆 *Standings after %d holes*\n", len(d.Session.Holes()))
		for i, p := range players {
			s := standings[p.ID]
			text += fmt.Sprintf("\n%d. %s: %s", i+1, p.Name, formatQuarters(s.Quarters))
			if s.SoloCount > 0 {
				text += fmt.Sprintf(" (%d solo)", s.SoloCount)
			}
		}
		return c.Send(text, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	// Register /status command handler
	b.Handle("/status", func(c telebot.Context) error {
		logger.Debug(gameID, "command_status", "")

		status := d.Manager.Status()
		var emoji string
		switch status.State {
		case outbox.StateSynced:
			emoji = "✅"
		case outbox.StatePending:
			emoji = "⏳"
		default:
			emoji = "❌"
		}
		text := fmt.Sprintf("%s Sync: %s\nPending events: %d", emoji, status.State, status.PendingCount)
		if !status.IsOnline {
			text += "\n📴 Offline - events are queued locally"
		}
		if !status.LastSync.IsZero() {
			text += fmt.Sprintf("\nLast sync: %s", status.LastSync.Format("15:04:05"))
		}
		if len(status.Errors) > 0 {
			text += fmt.Sprintf("\nLast error: %s", status.Errors[len(status.Errors)-1])
		}
		return c.Send(text)
	})

	// Register /double command handler
	b.Handle("/double", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Usage: /double <from> <to>")
		}
		from, ok := resolvePlayer(d.Session, args[0])
		if !ok {
			return c.Send(fmt.Sprintf("Unknown player: %s", args[0]))
		}
		to, ok := resolvePlayer(d.Session, args[1])
		if !ok {
			return c.Send(fmt.Sprintf("Unknown player: %s", args[1]))
		}
		logger.Debug(gameID, "command_double", fmt.Sprintf("from=%s to=%s", from, to))
		if err := d.Session.OfferDouble(from, to); err != nil {
			return c.Send(fmt.Sprintf("Cannot offer: %s", err.Error()))
		}
		return c.Send(fmt.Sprintf("⚡ %s offers a double to %s. /accept or /decline?",
			playerName(d.Session, from), playerName(d.Session, to)))
	})

	// Register /accept command handler
	b.Handle("/accept", func(c telebot.Context) error {
		actor := argPlayer(d.Session, c.Args())
		logger.Debug(gameID, "command_accept", fmt.Sprintf("actor=%s", actor))
		if err := d.Session.AcceptDouble(actor); err != nil {
			return c.Send(fmt.Sprintf("Cannot accept: %s", err.Error()))
		}
		return c.Send(fmt.Sprintf("💰 Double accepted! Wager is now %d quarters.", d.Session.Betting().CurrentWager))
	})

	// Register /decline command handler
	b.Handle("/decline", func(c telebot.Context) error {
		actor := argPlayer(d.Session, c.Args())
		logger.Debug(gameID, "command_decline", fmt.Sprintf("actor=%s", actor))
		if err := d.Session.DeclineDouble(actor); err != nil {
			return c.Send(fmt.Sprintf("Cannot decline: %s", err.Error()))
		}
		return c.Send("🏳️ Double declined. The hole goes to the offering side at the current wager.")
	})

	// Register /float command handler
	b.Handle("/float", func(c telebot.Context) error {
		return invocation(c, d, "float", func(playerID string) error {
			return d.Session.InvokeFloat(playerID)
		}, func(playerID string) string {
			return fmt.Sprintf("🎈 %s floats! Wager is now %d quarters.",
				playerName(d.Session, playerID), d.Session.Betting().CurrentWager)
		})
	})

	// Register /option command handler
	b.Handle("/option", func(c telebot.Context) error {
		return invocation(c, d, "option", func(playerID string) error {
			return d.Session.InvokeOption(playerID)
		}, func(playerID string) string {
			return fmt.Sprintf("🎯 Option invoked by %s.", playerName(d.Session, playerID))
		})
	})

	// Register /optionoff command handler
	b.Handle("/optionoff", func(c telebot.Context) error {
		actor := argPlayer(d.Session, c.Args())
		logger.Debug(gameID, "command_optionoff", "")
		if err := d.Session.TurnOffOption(actor); err != nil {
			return c.Send(fmt.Sprintf("Cannot turn off: %s", err.Error()))
		}
		return c.Send("🚫 Option is off for the rest of the hole.")
	})

	// Register /duncan command handler
	b.Handle("/duncan", func(c telebot.Context) error {
		return invocation(c, d, "duncan", func(playerID string) error {
			return d.Session.InvokeDuncan(playerID)
		}, func(playerID string) string {
			return fmt.Sprintf("🦅 %s goes Duncan! Wager is now %d quarters.",
				playerName(d.Session, playerID), d.Session.Betting().CurrentWager)
		})
	})

	// Register /joes command handler
	b.Handle("/joes", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Usage: /joes <player> <quarters>")
		}
		playerID, ok := resolvePlayer(d.Session, args[0])
		if !ok {
			return c.Send(fmt.Sprintf("Unknown player: %s", args[0]))
		}
		quarters, err := strconv.Atoi(args[1])
		if err != nil {
			return c.Send("Quarters must be a number (2, 4 or 8).")
		}
		logger.Debug(gameID, "command_joes", fmt.Sprintf("player=%s quarters=%d", playerID, quarters))
		if err := d.Session.SetJoesSpecial(playerID, quarters); err != nil {
			return c.Send(fmt.Sprintf("Cannot set: %s", err.Error()))
		}
		return c.Send(fmt.Sprintf("🃏 Joe's Special! Opening wager is %d quarters.", quarters))
	})

	// Register /team command handler
	b.Handle("/team", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 1 {
			return c.Send("Usage: /team <player>")
		}
		playerID, ok := resolvePlayer(d.Session, args[0])
		if !ok {
			return c.Send(fmt.Sprintf("Unknown player: %s", args[0]))
		}
		logger.Debug(gameID, "command_team", fmt.Sprintf("player=%s", playerID))
		if err := d.Session.ToggleTeam1(playerID); err != nil {
			return c.Send(fmt.Sprintf("Cannot toggle: %s", err.Error()))
		}
		teams := d.Session.Teams()
		return c.Send(fmt.Sprintf("👥 Team 1: %s\n👥 Team 2: %s",
			playerNames(d.Session, teams.Team1), playerNames(d.Session, teams.Team2())))
	})

	// Register /captain command handler
	b.Handle("/captain", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 1 {
			return c.Send("Usage: /captain <player>")
		}
		playerID, ok := resolvePlayer(d.Session, args[0])
		if !ok {
			return c.Send(fmt.Sprintf("Unknown player: %s", args[0]))
		}
		logger.Debug(gameID, "command_captain", fmt.Sprintf("player=%s", playerID))
		if err := d.Session.SetTeamMode(engine.ModeSolo); err != nil {
			return c.Send(fmt.Sprintf("Cannot set: %s", err.Error()))
		}
		if err := d.Session.SetCaptain(playerID); err != nil {
			return c.Send(fmt.Sprintf("Cannot set: %s", err.Error()))
		}
		teams := d.Session.Teams()
		if teams.Captain == "" {
			return c.Send("Captain deselected.")
		}
		return c.Send(fmt.Sprintf("👤 %s goes solo against the field!", playerName(d.Session, teams.Captain)))
	})

	// Register /solo command handler
	b.Handle("/solo", func(c telebot.Context) error {
		logger.Debug(gameID, "command_solo", "")
		if err := d.Session.SetTeamMode(engine.ModeSolo); err != nil {
			return c.Send(fmt.Sprintf("Cannot switch: %s", err.Error()))
		}
		return c.Send("Solo mode. Pick the captain with /captain <player>.")
	})

	// Register /partners command handler
	b.Handle("/partners", func(c telebot.Context) error {
		logger.Debug(gameID, "command_partners", "")
		if err := d.Session.SetTeamMode(engine.ModePartners); err != nil {
			return c.Send(fmt.Sprintf("Cannot switch: %s", err.Error()))
		}
		return c.Send("Partners mode. Build team 1 with /team <player>.")
	})

	// Register /score command handler
	b.Handle("/score", func(c telebot.Context) error {
		return playerNumberCommand(c, d, "score", "Usage: /score <player> <strokes>",
			func(playerID string, n int) error { return d.Session.SetScore(playerID, n) },
			func(playerID string, n int) string {
				return fmt.Sprintf("✏️ %s: %d strokes.", playerName(d.Session, playerID), n)
			})
	})

	// Register /quarters command handler
	b.Handle("/quarters", func(c telebot.Context) error {
		return playerNumberCommand(c, d, "quarters", "Usage: /quarters <player> <amount>",
			func(playerID string, n int) error { return d.Session.SetQuarters(playerID, n) },
			func(playerID string, n int) string {
				hole := d.Session.Hole()
				text := fmt.Sprintf("💱 %s: %s quarters.", playerName(d.Session, playerID), formatQuarters(n))
				if hole.AllQuartersEntered(d.Session.Teams().Roster) && !hole.QuartersBalanced() {
					text += fmt.Sprintf("\n⚠️ Quarters sum to %s, they must balance to zero.", formatQuarters(hole.QuartersSum()))
				}
				return text
			})
	})

	// Register /winner command handler
	b.Handle("/winner", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 1 {
			return c.Send("Usage: /winner <team1|team2|captain|opponents|push>")
		}
		winner := strings.ToLower(args[0])
		logger.Debug(gameID, "command_winner", fmt.Sprintf("winner=%s", winner))
		if err := d.Session.SetWinner(winner); err != nil {
			return c.Send(fmt.Sprintf("Cannot set: %s", err.Error()))
		}
		if winner == "push" {
			return c.Send("🔁 Push! The wager carries over to the next hole.")
		}
		return c.Send(fmt.Sprintf("🏁 Hole goes to %s. /complete when the card is in.", winner))
	})

	// Register /complete command handler
	b.Handle("/complete", func(c telebot.Context) error {
		logger.Debug(gameID, "command_complete", "")
		if err := d.Session.CompleteHole(context.Background()); err != nil {
			return c.Send(fmt.Sprintf("Cannot complete: %s", err.Error()))
		}
		phase := d.Session.Phase()
		if phase.IsGameComplete() {
			text := "🎉 That's the round!\n"
			standings := d.Session.Standings()
			for _, p := range d.Session.Players() {
				text += fmt.Sprintf("\n%s: %s", p.Name, formatQuarters(standings[p.ID].Quarters))
			}
			return c.Send(text)
		}
		text := fmt.Sprintf("✅ Hole complete. On to hole %d, captain is %s.",
			phase.CurrentHole, playerName(d.Session, d.Session.Teams().CurrentCaptain()))
		if phase.IsHoepfinger {
			text += fmt.Sprintf("\n🐐 Hoepfinger! %s is the goat.", playerName(d.Session, phase.GoatID))
		}
		return c.Send(text)
	})

	// Register /edit command handler
	b.Handle("/edit", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 4 {
			return c.Send("Usage: /edit <hole> <player> <strokes> <quarters>")
		}
		hole, err := strconv.Atoi(args[0])
		if err != nil {
			return c.Send("Usage: /edit <hole> <player> <strokes> <quarters>")
		}
		playerID, ok := resolvePlayer(d.Session, args[1])
		if !ok {
			return c.Send(fmt.Sprintf("Unknown player: %s", args[1]))
		}
		strokes, err1 := strconv.Atoi(args[2])
		quarters, err2 := strconv.Atoi(args[3])
		if err1 != nil || err2 != nil {
			return c.Send("Usage: /edit <hole> <player> <strokes> <quarters>")
		}
		logger.Debug(gameID, "command_edit", fmt.Sprintf("hole=%d player=%s strokes=%d quarters=%d", hole, playerID, strokes, quarters))
		if err := d.Session.EditHoleEntry(hole, playerID, strokes, quarters); err != nil {
			return c.Send(fmt.Sprintf("Cannot edit: %s", err.Error()))
		}
		text := fmt.Sprintf("✏️ Hole %d: %s now %d strokes, %s quarters.",
			hole, playerName(d.Session, playerID), strokes, formatQuarters(quarters))
		if bad := d.Session.InvalidHoles(); len(bad) > 0 {
			text += fmt.Sprintf("\n⚠️ Holes %v no longer balance, fix them before the round can finish.", bad)
		}
		return c.Send(text)
	})

	// Register /editwinner command handler
	b.Handle("/editwinner", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Usage: /editwinner <hole> <team1|team2|captain|opponents|push>")
		}
		hole, err := strconv.Atoi(args[0])
		if err != nil {
			return c.Send("Usage: /editwinner <hole> <team1|team2|captain|opponents|push>")
		}
		winner := strings.ToLower(args[1])
		logger.Debug(gameID, "command_editwinner", fmt.Sprintf("hole=%d winner=%s", hole, winner))
		if err := d.Session.EditHoleWinner(hole, winner); err != nil {
			return c.Send(fmt.Sprintf("Cannot edit: %s", err.Error()))
		}
		return c.Send(fmt.Sprintf("✏️ Hole %d now goes to %s.", hole, winner))
	})

	// Register /sync command handler
	b.Handle("/sync", func(c telebot.Context) error {
		logger.Debug(gameID, "command_sync", "")
		if err := d.Manager.Flush(context.Background()); err != nil {
			return c.Send(fmt.Sprintf("❌ Sync failed: %s", err.Error()))
		}
		return c.Send(fmt.Sprintf("✅ Synced. Pending events: %d", d.Manager.Status().PendingCount))
	})

	// Register /courses command handler
	b.Handle("/courses", func(c telebot.Context) error {
		logger.Debug(gameID, "command_courses", "")
		courses, err := d.Courses.All(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Failed to fetch courses: %s", err.Error()))
		}
		if len(courses) == 0 {
			return c.Send("No courses on the server yet.")
		}
		text := "🏌️ *Courses*\n"
		for _, course := range courses {
			par := 0
			for _, h := range course.Holes {
				par += h.Par
			}
			text += fmt.Sprintf("\n• %s (%d holes, par %d)", course.Name, len(course.Holes), par)
		}
		return c.Send(text, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	// Register /signups command handler
	b.Handle("/signups", func(c telebot.Context) error {
		weekStart := time.Now().Format("2006-01-02")
		if args := c.Args(); len(args) > 0 {
			weekStart = args[0]
		}
		logger.Debug(gameID, "command_signups", fmt.Sprintf("week_start=%s", weekStart))

		week, err := d.Client.WeeklySignups(context.Background(), weekStart)
		if err != nil {
			return c.Send(fmt.Sprintf("Failed to fetch signups: %s", err.Error()))
		}
		text := fmt.Sprintf("📅 *Signups for the week of %s*\n", weekStart)
		for _, day := range week.Days {
			text += fmt.Sprintf("\n*%s*", day.Date)
			if len(day.Signups) == 0 {
				text += " - nobody yet"
				continue
			}
			for _, signup := range day.Signups {
				text += fmt.Sprintf("\n  • %s", signup.PlayerName)
			}
		}
		return c.Send(text, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	// Register /stats command handler
	b.Handle("/stats", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 1 {
			return c.Send("Usage: /stats <player>")
		}
		playerID, ok := resolvePlayer(d.Session, args[0])
		if !ok {
			return c.Send(fmt.Sprintf("Unknown player: %s", args[0]))
		}
		logger.Debug(gameID, "command_stats", fmt.Sprintf("player=%s", playerID))

		stats, ok := d.Stats.Get(playerID)
		if !ok {
			fetched, err := d.Client.PlayerStatistics(context.Background(), playerID)
			if err != nil {
				return c.Send(fmt.Sprintf("Failed to fetch statistics: %s", err.Error()))
			}
			stats = *fetched
			d.Stats.Put(playerID, stats)
		}

		text := fmt.Sprintf("📊 *%s*\n\n"+
			"Games: %d\n"+
			"Holes: %d\n"+
			"Quarters: %s\n"+
			"Avg per hole: %.2f\n"+
			"Solo: %d attempts, %d won\n"+
			"Doubles: %d offered, %d won",
			playerName(d.Session, playerID),
			stats.GamesPlayed, stats.HolesPlayed, formatQuarters(stats.TotalQuarters),
			stats.AvgPerHole, stats.SoloAttempts, stats.SoloWins,
			stats.DoublesOffered, stats.DoublesWon)
		return c.Send(text, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	log.Println("Bot started. Use /start command to test.")

	// Start polling for updates
	b.Start()
}

// invocation handles the single-player wager commands.
func invocation(c telebot.Context, d Deps, name string, invoke func(string) error, done func(string) string) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Send(fmt.Sprintf("Usage: /%s <player>", name))
	}
	playerID, ok := resolvePlayer(d.Session, args[0])
	if !ok {
		return c.Send(fmt.Sprintf("Unknown player: %s", args[0]))
	}
	logger.Debug(d.Session.GameID(), "command_"+name, fmt.Sprintf("player=%s", playerID))
	if err := invoke(playerID); err != nil {
		return c.Send(fmt.Sprintf("Cannot invoke: %s", err.Error()))
	}
	return c.Send(done(playerID))
}

// playerNumberCommand handles the <player> <number> entry commands.
func playerNumberCommand(c telebot.Context, d Deps, name, usage string, set func(string, int) error, done func(string, int) string) error {
	args := c.Args()
	if len(args) < 2 {
		return c.Send(usage)
	}
	playerID, ok := resolvePlayer(d.Session, args[0])
	if !ok {
		return c.Send(fmt.Sprintf("Unknown player: %s", args[0]))
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return c.Send(usage)
	}
	logger.Debug(d.Session.GameID(), "command_"+name, fmt.Sprintf("player=%s value=%d", playerID, n))
	if err := set(playerID, n); err != nil {
		return c.Send(fmt.Sprintf("Cannot set: %s", err.Error()))
	}
	return c.Send(done(playerID, n))
}

// resolvePlayer matches an argument against player IDs and names,
// case-insensitively.
func resolvePlayer(s *game.Session, arg string) (string, bool) {
	for _, p := range s.Players() {
		if strings.EqualFold(p.ID, arg) || strings.EqualFold(p.Name, arg) {
			return p.ID, true
		}
	}
	return "", false
}

// argPlayer resolves an optional player argument, defaulting to the system
// actor when omitted or unknown.
func argPlayer(s *game.Session, args []string) string {
	if len(args) > 0 {
		if id, ok := resolvePlayer(s, args[0]); ok {
			return id
		}
	}
	return engine.SystemActor
}

func playerName(s *game.Session, playerID string) string {
	for _, p := range s.Players() {
		if p.ID == playerID {
			return p.Name
		}
	}
	return playerID
}

func playerNames(s *game.Session, ids []string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = playerName(s, id)
	}
	return strings.Join(names, " + ")
}
