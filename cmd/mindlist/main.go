package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/mindlist/internal/app"
	"github.com/dori/mindlist/internal/config"
	"github.com/dori/mindlist/internal/gamify"
	"github.com/dori/mindlist/internal/model"
	"github.com/dori/mindlist/internal/store"
)

var (
	version = "0.1.0"
)

// Rewards granted when a task is completed.
const (
	xpPerTask     = 50
	gemsPerTask   = 5
	pointsPerTask = 10
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	idStyle        = lipgloss.NewStyle().Faint(true)
	urgentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	importantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	trashStyle     = lipgloss.NewStyle().Faint(true).Italic(true)
	statStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "version":
		fmt.Printf("mindlist v%s\n", version)
		return
	case "help", "-h", "--help":
		printHelp()
		return
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		fatal("invalid config: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer application.Close()

	switch cmd {
	case "add":
		handleAdd(application, args)
	case "tasks":
		handleTasks(application, args)
	case "lists":
		handleLists(application)
	case "newlist":
		handleNewList(application, args)
	case "done":
		handleDone(application, args)
	case "rm":
		handleRemove(application, args)
	case "rmlist":
		handleRemoveList(application, args)
	case "trash":
		handleTrash(application)
	case "restore":
		handleRestore(application, args)
	case "purge":
		handlePurge(application, args)
	case "stats":
		handleStats(application)
	case "shop":
		handleShop(application, args)
	case "sync":
		handleSync(application, args)
	case "remind":
		sent := application.RemindDueTasks(24 * time.Hour)
		fmt.Printf("Sent %d reminder(s)\n", sent)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printHelp()
		os.Exit(1)
	}
}

func configPath() string {
	if p := os.Getenv("MINDLIST_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "mindlist.yaml"
	}
	return home + "/.config/mindlist/config.yaml"
}

func printHelp() {
	help := `mindlist - a gamified to-do list

Usage:
  mindlist add <text>           Quick add a task
  mindlist tasks [list-id]      Show tasks (optionally for one list)
  mindlist lists                Show lists
  mindlist newlist <name>       Create a list
  mindlist done <task-id>       Toggle a task's completion
  mindlist rm <task-id>         Move a task to the trash
  mindlist rmlist <list-id>     Move a list to the trash
  mindlist trash                Show recently deleted items
  mindlist restore <entry-id>   Restore a trash entry
  mindlist purge <entry-id>     Permanently delete a trash entry
  mindlist purge --all          Empty the trash
  mindlist stats                Show level, XP, streak and gems
  mindlist shop freeze|repair   Spend gems on streak items
  mindlist sync push|pull|status  Cloud drive sync
  mindlist remind               Send reminders for tasks due today
  mindlist version              Show version

Quick Add Syntax:
  mindlist add "Buy groceries"
  mindlist add "Review PR #work !urgent due:tomorrow"

  List:      #list-name    (matched against list names)
  Priority:  !important !urgent
  Due date:  due:tomorrow due:friday due:2026-01-15

Ids may be abbreviated to any unique prefix.`

	fmt.Println(help)
}

func fatal(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errStyle.Render(fmt.Sprintf("Error: "+format, args...)))
	os.Exit(1)
}

func handleAdd(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist add <text>")
	}
	text := strings.Join(args, " ")
	task, listName := parseQuickAdd(text)
	if task.Title == "" {
		fatal("task title must not be empty")
	}

	if listName != "" {
		if l := findListByName(a.Store.State().Lists, listName); l != nil {
			task.ListID = l.ID
		} else {
			fatal("no list named %q", listName)
		}
	}

	state := a.Store.Dispatch(store.AddTask{Task: task})
	created := state.Tasks[len(state.Tasks)-1]

	fmt.Printf("Created: %s\n", titleStyle.Render(created.Title))
	fmt.Printf("Id: %s\n", idStyle.Render(created.ID))
	if created.DueDate != nil {
		fmt.Printf("Due: %s\n", formatDueDate(*created.DueDate))
	}
	if created.Priority != model.PriorityNone {
		fmt.Printf("Priority: %s\n", renderPriority(created.Priority))
	}
}

func handleTasks(a *app.App, args []string) {
	state := a.Store.State()

	tasks := state.Tasks
	if len(args) > 0 {
		list, err := resolveList(state.Lists, args[0])
		if err != nil {
			fatal("%v", err)
		}
		filtered := tasks[:0:0]
		for _, t := range tasks {
			if t.ListID == list.ID {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].IsCompleted != tasks[j].IsCompleted {
			return !tasks[i].IsCompleted
		}
		return tasks[i].PriorityWeight() > tasks[j].PriorityWeight()
	})

	for _, t := range tasks {
		if t.Deleted {
			continue
		}
		line := renderTask(t)
		fmt.Println(line)
	}
}

func renderTask(t model.Task) string {
	box := "[ ]"
	title := titleStyle.Render(t.Title)
	if t.IsCompleted {
		box = "[x]"
		title = doneStyle.Render(t.Title)
	}
	line := fmt.Sprintf("%s %s %s", box, idStyle.Render(shortID(t.ID)), title)
	if t.Priority != model.PriorityNone {
		line += " " + renderPriority(t.Priority)
	}
	if t.DueDate != nil {
		line += idStyle.Render(" due " + formatDueDate(*t.DueDate))
	}
	return line
}

func renderPriority(p model.Priority) string {
	switch p {
	case model.PriorityUrgent:
		return urgentStyle.Render("!urgent")
	case model.PriorityImportant:
		return importantStyle.Render("!important")
	}
	return ""
}

func handleLists(a *app.App) {
	state := a.Store.State()
	if len(state.Lists) == 0 {
		fmt.Println("No lists. Create one with: mindlist newlist <name>")
		return
	}
	for _, l := range state.Lists {
		if l.Deleted {
			continue
		}
		count := 0
		done := 0
		for _, t := range state.Tasks {
			if t.ListID == l.ID && !t.Deleted {
				count++
				if t.IsCompleted {
					done++
				}
			}
		}
		fmt.Printf("%s %s (%d/%d done)\n", idStyle.Render(shortID(l.ID)), titleStyle.Render(l.Name), done, count)
	}
}

func handleNewList(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist newlist <name>")
	}
	name := strings.Join(args, " ")
	state := a.Store.Dispatch(store.AddUserList{List: model.UserList{Name: name}})
	created := state.Lists[len(state.Lists)-1]
	fmt.Printf("Created list: %s\n", titleStyle.Render(created.Name))
	fmt.Printf("Id: %s\n", idStyle.Render(created.ID))
}

func handleDone(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist done <task-id>")
	}
	state := a.Store.State()
	task, err := resolveTask(state.Tasks, args[0])
	if err != nil {
		fatal("%v", err)
	}

	next := a.Store.Dispatch(store.ToggleTask{ID: task.ID})
	updated := next.TaskByID(task.ID)
	if updated == nil {
		return
	}
	if updated.IsCompleted {
		a.Store.Dispatch(store.AddXP{Amount: xpPerTask})
		a.Store.Dispatch(store.AddGems{Amount: gemsPerTask})
		final := a.Store.Dispatch(store.RecordActivity{Points: pointsPerTask})
		fmt.Printf("Done: %s\n", doneStyle.Render(updated.Title))
		fmt.Printf("+%d XP, +%d gems, streak %d\n", xpPerTask, gemsPerTask, final.Streak)
	} else {
		fmt.Printf("Reopened: %s\n", titleStyle.Render(updated.Title))
	}
}

func handleRemove(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist rm <task-id>")
	}
	state := a.Store.State()
	task, err := resolveTask(state.Tasks, args[0])
	if err != nil {
		fatal("%v", err)
	}
	a.Store.Dispatch(store.TrashTask{ID: task.ID})
	fmt.Printf("Moved to trash: %s\n", trashStyle.Render(task.Title))
}

func handleRemoveList(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist rmlist <list-id>")
	}
	state := a.Store.State()
	list, err := resolveList(state.Lists, args[0])
	if err != nil {
		fatal("%v", err)
	}
	a.Store.Dispatch(store.TrashList{ID: list.ID})
	fmt.Printf("Moved to trash: %s\n", trashStyle.Render(list.Name))
}

func handleTrash(a *app.App) {
	entries := a.Store.State().RecentlyDeleted
	if len(entries) == 0 {
		fmt.Println("Trash is empty.")
		return
	}

	// Newest first, display only
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DeletedAt.After(entries[j].DeletedAt)
	})

	for _, e := range entries {
		var name, origin string
		switch e.Type {
		case model.DeletedTypeTask:
			if e.Task != nil {
				name = e.Task.Title
			}
			if e.FromListID != "" {
				origin = " from " + e.FromListID
			}
		case model.DeletedTypeList:
			if e.List != nil {
				name = e.List.Name
			}
		}
		expiry := e.DeletedAt.Add(store.RetentionWindow)
		fmt.Printf("%s %s %s%s %s\n",
			idStyle.Render(shortID(e.ID)),
			string(e.Type),
			trashStyle.Render(name),
			trashStyle.Render(origin),
			idStyle.Render("expires "+expiry.Format("Jan 2")))
	}
}

func handleRestore(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist restore <entry-id>")
	}
	entry, err := resolveEntry(a.Store.State().RecentlyDeleted, args[0])
	if err != nil {
		fatal("%v", err)
	}
	a.Store.Dispatch(store.RestoreFromRecentlyDeleted{EntryID: entry.ID})
	fmt.Println("Restored.")
}

func handlePurge(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist purge <entry-id> | --all")
	}
	if args[0] == "--all" {
		a.Store.Dispatch(store.EmptyRecentlyDeleted{})
		fmt.Println("Trash emptied.")
		return
	}
	entry, err := resolveEntry(a.Store.State().RecentlyDeleted, args[0])
	if err != nil {
		fatal("%v", err)
	}
	a.Store.Dispatch(store.PermanentlyDelete{EntryID: entry.ID})
	fmt.Println("Permanently deleted.")
}

func handleStats(a *app.App) {
	s := a.Store.State()
	g := s.Gamification

	fmt.Printf("%s %s\n", statStyle.Render(fmt.Sprintf("Level %d", g.Level)), gamify.TitleForLevel(g.Level))
	fmt.Printf("XP: %d (%d to next level, %.0f%% through)\n", g.XP, g.XPToNextLevel, gamify.ProgressPercent(g.XP))
	fmt.Printf("Mind gems: %d   Streak freezes: %d\n", g.MindGems, g.StreakFreezes)
	fmt.Printf("Streak: %d (best %d)\n", s.Streak, s.BestStreak)
	if g.League != "" {
		fmt.Printf("League: %s (weekly XP %d)\n", g.League, g.WeeklyXP)
	}
	fmt.Printf("Productivity: %d/%d today\n", s.ProductivityPoints, s.DailyProductivityGoal)
	if len(g.Achievements) > 0 {
		fmt.Printf("Achievements: %s\n", strings.Join(g.Achievements, ", "))
	}
}

func handleShop(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist shop freeze|repair")
	}
	before := a.Store.State().Gamification
	switch args[0] {
	case "freeze":
		after := a.Store.Dispatch(store.PurchaseStreakFreeze{}).Gamification
		if after.StreakFreezes == before.StreakFreezes {
			fatal("not enough gems (need %d, have %d)", store.GemCostStreakFreeze, before.MindGems)
		}
		fmt.Printf("Bought a streak freeze (-%d gems, %d left)\n", store.GemCostStreakFreeze, after.MindGems)
	case "repair":
		prev := a.Store.State().Streak
		next := a.Store.Dispatch(store.RepairStreak{})
		if next.Streak == prev {
			fatal("nothing to repair, or not enough gems (need %d)", store.GemCostStreakRepair)
		}
		fmt.Printf("Streak repaired to %d (-%d gems)\n", next.Streak, store.GemCostStreakRepair)
	default:
		fatal("unknown shop item: %s", args[0])
	}
}

func handleSync(a *app.App, args []string) {
	if len(args) == 0 {
		fatal("usage: mindlist sync push|pull|status")
	}
	ctx := context.Background()
	switch args[0] {
	case "push":
		if res := a.Drive.Authenticate(ctx); !res.Success {
			fatal("%s", res.Message)
		}
		a.Bridge.Flush(ctx, a.Store.State())
		fmt.Println("Pushed.")
	case "pull":
		remote, ok := a.Bridge.Pull(ctx)
		if !ok {
			fmt.Println("Local data is already up to date.")
			return
		}
		a.Store.Dispatch(store.ApplyRemoteData{State: remote})
		fmt.Println("Pulled remote data.")
	case "status":
		res := a.Drive.SyncStatus(ctx)
		if !res.Success {
			fatal("%s", res.Message)
		}
		fmt.Printf("%s: %s\n", res.Message, string(res.Data))
	default:
		fatal("unknown sync command: %s", args[0])
	}
}

// Quick add parsing

func parseQuickAdd(text string) (model.Task, string) {
	var task model.Task
	var listName string

	words := strings.Fields(text)
	var titleParts []string

	for _, word := range words {
		switch {
		// List reference (#work, #home, etc.)
		case strings.HasPrefix(word, "#") && len(word) > 1:
			listName = strings.TrimPrefix(word, "#")

		// Priority (!important, !urgent)
		case strings.HasPrefix(word, "!"):
			switch strings.ToLower(strings.TrimPrefix(word, "!")) {
			case "important", "imp", "i":
				task.Priority = model.PriorityImportant
			case "urgent", "u":
				task.Priority = model.PriorityUrgent
			default:
				titleParts = append(titleParts, word)
			}

		// Due date (due:tomorrow, due:friday, due:2026-01-15)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := parseNaturalDate(dateStr); parsed != nil {
				task.DueDate = parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	task.Title = strings.Join(titleParts, " ")
	return task, listName
}

var weekdayNames = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

var dueDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"Jan 2",
	"Jan 2, 2006",
}

// parseNaturalDate resolves "today", "tomorrow", weekday names, "nextweek",
// and a handful of explicit layouts. Relative dates land at end of day.
func parseNaturalDate(s string) *time.Time {
	s = strings.ToLower(s)
	now := time.Now()
	eod := endOfDay(now)

	switch s {
	case "today":
		return &eod
	case "tomorrow", "tom":
		t := eod.AddDate(0, 0, 1)
		return &t
	case "nextweek":
		t := eod.AddDate(0, 0, 7)
		return &t
	}

	if wd, ok := weekdayNames[s]; ok {
		ahead := int(wd - now.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		t := eod.AddDate(0, 0, ahead)
		return &t
	}

	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			// Year-less layouts assume the current year.
			t = time.Date(now.Year(), t.Month(), t.Day(), 23, 59, 59, 0, now.Location())
		}
		return &t
	}

	return nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func formatDueDate(t time.Time) string {
	now := time.Now()
	switch {
	case sameDay(t, now):
		return "today"
	case sameDay(t, now.AddDate(0, 0, 1)):
		return "tomorrow"
	case t.Year() == now.Year():
		return t.Format("Mon, Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Id resolution

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func resolveTask(tasks []model.Task, ref string) (model.Task, error) {
	var match *model.Task
	for i := range tasks {
		if tasks[i].ID == ref {
			return tasks[i], nil
		}
		if strings.HasPrefix(tasks[i].ID, ref) {
			if match != nil {
				return model.Task{}, fmt.Errorf("id prefix %q is ambiguous", ref)
			}
			match = &tasks[i]
		}
	}
	if match == nil {
		return model.Task{}, fmt.Errorf("no task with id %q", ref)
	}
	return *match, nil
}

func resolveList(lists []model.UserList, ref string) (model.UserList, error) {
	var match *model.UserList
	for i := range lists {
		if lists[i].ID == ref {
			return lists[i], nil
		}
		if strings.HasPrefix(lists[i].ID, ref) || strings.EqualFold(lists[i].Name, ref) {
			if match != nil {
				return model.UserList{}, fmt.Errorf("list reference %q is ambiguous", ref)
			}
			match = &lists[i]
		}
	}
	if match == nil {
		return model.UserList{}, fmt.Errorf("no list matching %q", ref)
	}
	return *match, nil
}

func resolveEntry(entries []model.RecentlyDeletedItem, ref string) (model.RecentlyDeletedItem, error) {
	var match *model.RecentlyDeletedItem
	for i := range entries {
		if entries[i].ID == ref {
			return entries[i], nil
		}
		if strings.HasPrefix(entries[i].ID, ref) {
			if match != nil {
				return model.RecentlyDeletedItem{}, fmt.Errorf("id prefix %q is ambiguous", ref)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return model.RecentlyDeletedItem{}, fmt.Errorf("no trash entry with id %q", ref)
	}
	return *match, nil
}

func findListByName(lists []model.UserList, name string) *model.UserList {
	for i := range lists {
		if strings.EqualFold(lists[i].Name, name) {
			return &lists[i]
		}
	}
	return nil
}
