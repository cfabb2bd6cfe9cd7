package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"roomservice/internal/client"
	"roomservice/internal/config"
	"roomservice/internal/dashboard"
	"roomservice/internal/domain"
	"roomservice/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	apiURL := flag.String("api", cfg.APIURL, "room service API base URL")
	timeout := flag.Duration("timeout", cfg.RequestTimeout, "per-request timeout")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	zl, err := logger.New(*level, "roomservice-staff")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	api := client.NewClient(*apiURL, *timeout)
	ctx := context.Background()

	board, err := load(ctx, api)
	if err != nil {
		zl.Fatal("failed to fetch orders", zap.Error(err))
	}
	filter, _ := dashboard.ParseFilter("", false)
	show(board, filter)

	fmt.Println("commands: all, level <1|2|3>, completed, set <order id> <status>, refresh, quit")
	in := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); in.Scan(); fmt.Print("> ") {
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "all":
			filter, _ = dashboard.ParseFilter("", false)
		case "completed":
			filter, _ = dashboard.ParseFilter("", true)
		case "level":
			if len(fields) != 2 {
				fmt.Println("usage: level <1|2|3>")
				continue
			}
			f, err := dashboard.ParseFilter(fields[1], false)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			filter = f
		case "refresh":
			b, err := load(ctx, api)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			board = b
		case "set":
			if len(fields) != 3 {
				fmt.Println("usage: set <order id> <status>")
				continue
			}
			id, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				fmt.Println("invalid order id:", fields[1])
				continue
			}
			// Rows update independently; the prompt stays usable meanwhile.
			go func(b *dashboard.Board, id uint64, status domain.OrderStatus) {
				if err := b.SubmitStatus(ctx, id, status); err != nil {
					fmt.Printf("\norder %d: %v\n> ", id, err)
					return
				}
				fmt.Printf("\norder %d is now %s\n> ", id, status)
			}(board, id, domain.OrderStatus(fields[2]))
			continue
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", fields[0])
			continue
		}
		show(board, filter)
	}
}

func load(ctx context.Context, api *client.Client) (*dashboard.Board, error) {
	orders, err := api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard.NewBoard(api, orders), nil
}

func show(board *dashboard.Board, f dashboard.Filter) {
	rows := board.Visible(f)
	if len(rows) == 0 {
		fmt.Println("no orders")
		return
	}
	for _, o := range rows {
		busy := ""
		if board.Busy(o.ID) {
			busy = " (updating)"
		}
		fmt.Printf("#%-4d room %-5s %-11s $%-8s %s%s\n",
			o.ID, o.RoomNumber, o.Status, o.TotalPrice.StringFixed(2), o.CreatedAt.Local().Format(time.DateTime), busy)
		for _, l := range o.OrderItems {
			fmt.Printf("        %dx %s\n", l.Quantity, l.Item.Name)
		}
	}
}
