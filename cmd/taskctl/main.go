// taskctl - консольный клиент API задач. Список загружается один раз,
// поиск и фильтры применяются локально, как в мобильном приложении
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"taskManager/internal/config"
	"taskManager/pkg/client"
)

const usage = `Использование: taskctl <команда> [флаги]

Команды:
  list        показать задачи (фильтры применяются локально)
  add         создать задачу
  edit        изменить задачу
  done        переключить статус выполнения
  rm          удалить задачу
  categories  показать категории
  stats       показать статистику
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	api := client.New(cfg.Client.BaseURL, cfg.Client.Timeout)
	ctx := context.Background()

	switch os.Args[1] {
	case "list":
		err = runList(ctx, api, os.Args[2:])
	case "add":
		err = runAdd(ctx, api, os.Args[2:])
	case "edit":
		err = runEdit(ctx, api, os.Args[2:])
	case "done":
		err = runToggle(ctx, api, os.Args[2:])
	case "rm":
		err = runDelete(ctx, api, os.Args[2:])
	case "categories":
		err = runCategories(ctx, api)
	case "stats":
		err = runStats(ctx, api)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fatal(err)
	}
}

func runList(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "подстрока в названии или заметке")
	status := fs.String("status", client.StatusAll, "all | active | completed")
	category := fs.String("category", "", "точное совпадение категории")
	sortBy := fs.String("sort-by", "", "поле сортировки (серверная)")
	sortOrder := fs.String("sort-order", "", "asc | desc")
	fs.Parse(args)

	// сортировку делает сервер, поиск и фильтры - локальный кэш
	tasks, err := api.Tasks(ctx, client.ListQuery{
		SortBy:    *sortBy,
		SortOrder: *sortOrder,
	})
	if err != nil {
		return err
	}

	cache := client.NewCache()
	cache.Load(tasks)

	view := cache.View(client.FilterState{
		Query:    *search,
		Status:   *status,
		Category: *category,
	})

	printTasks(view)
	return nil
}

func runAdd(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "название задачи (обязательно)")
	note := fs.String("note", "", "заметка")
	priority := fs.String("priority", "", "low | medium | high")
	category := fs.String("category", "", "категория")
	fs.Parse(args)

	req := client.CreateTaskRequest{Title: *title}
	if *note != "" {
		req.Note = note
	}
	if *priority != "" {
		req.Priority = priority
	}
	if *category != "" {
		req.Category = category
	}

	created, err := api.Create(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("создана задача %d\n", created.ID)
	return nil
}

func runEdit(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	title := fs.String("title", "", "новое название")
	note := fs.String("note", "", "новая заметка")
	priority := fs.String("priority", "", "low | medium | high")
	category := fs.String("category", "", "новая категория")
	fs.Parse(args)

	id, err := parseIDArg(fs.Args())
	if err != nil {
		return err
	}

	req := client.UpdateTaskRequest{}
	if *title != "" {
		req.Title = title
	}
	if *note != "" {
		req.Note = note
	}
	if *priority != "" {
		req.Priority = priority
	}
	if *category != "" {
		req.Category = category
	}

	updated, err := api.Update(ctx, id, req)
	if err != nil {
		return err
	}

	fmt.Printf("обновлена задача %d\n", updated.ID)
	return nil
}

func runToggle(ctx context.Context, api *client.Client, args []string) error {
	id, err := parseIDArg(args)
	if err != nil {
		return err
	}

	toggled, err := api.Toggle(ctx, id)
	if err != nil {
		return err
	}

	state := "не выполнена"
	if toggled.Completed {
		state = "выполнена"
	}
	fmt.Printf("задача %d: %s\n", toggled.ID, state)
	return nil
}

func runDelete(ctx context.Context, api *client.Client, args []string) error {
	id, err := parseIDArg(args)
	if err != nil {
		return err
	}

	if err := api.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Printf("удалена задача %d\n", id)
	return nil
}

func runCategories(ctx context.Context, api *client.Client) error {
	categories, err := api.Categories(ctx)
	if err != nil {
		return err
	}

	for _, category := range categories {
		fmt.Println(category)
	}
	return nil
}

func runStats(ctx context.Context, api *client.Client) error {
	stats, err := api.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("всего: %d\nвыполнено: %d\nв работе: %d\n", stats.Total, stats.Completed, stats.Pending)
	for _, priority := range []string{"low", "medium", "high"} {
		fmt.Printf("%s: %d\n", priority, stats.ByPriority[priority])
	}
	return nil
}

func printTasks(tasks []client.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tСТАТУС\tПРИОРИТЕТ\tКАТЕГОРИЯ\tНАЗВАНИЕ")
	for _, t := range tasks {
		status := " "
		if t.Completed {
			status = "x"
		}
		category := ""
		if t.Category != nil {
			category = *t.Category
		}
		fmt.Fprintf(w, "%d\t[%s]\t%s\t%s\t%s\n", t.ID, status, t.Priority, category, t.Title)
	}
	w.Flush()
}

func parseIDArg(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.New("нужен id задачи")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("неверный id задачи: %q", args[0])
	}
	return id, nil
}

// fatal печатает ошибку сервера в человекочитаемом виде
func fatal(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintln(os.Stderr, apiErr.Message)
		for field, messages := range apiErr.Errors {
			for _, message := range messages {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, message)
			}
		}
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
