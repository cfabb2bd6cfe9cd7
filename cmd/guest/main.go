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

	"roomservice/internal/client"
	"roomservice/internal/config"
	"roomservice/internal/domain"
	"roomservice/internal/logger"
	"roomservice/internal/services"
	"roomservice/internal/session"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	apiURL := flag.String("api", cfg.APIURL, "room service API base URL")
	room := flag.String("room", "", "room number to order for")
	interval := flag.Duration("poll", cfg.PollInterval, "status poll interval")
	timeout := flag.Duration("timeout", cfg.RequestTimeout, "per-request timeout")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if *room == "" {
		log.Fatal("-room is required")
	}
	zl, err := logger.New(*level, "roomservice-guest")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	api := client.NewClient(*apiURL, *timeout)
	ctx := context.Background()

	items, err := api.ListMenu(ctx, *room)
	if err != nil {
		zl.Fatal("failed to fetch menu items", zap.Error(err))
	}
	byID := make(map[uint64]domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	printMenu(items)

	s := session.New(api, *room,
		session.WithPollInterval(*interval),
		session.WithCallTimeout(*timeout),
		session.WithLogger(zl),
		session.WithStatusHook(func(snap session.Snapshot) { fmt.Println(snap.Message) }),
	)
	defer s.Close()

	fmt.Println("commands: menu, add <id>, remove <id>, cart, submit, save, cancel, quit")
	in := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); in.Scan(); fmt.Print("> ") {
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "menu":
			printMenu(items)
		case "add", "remove":
			id, ok := parseID(fields)
			if !ok {
				fmt.Println("usage:", fields[0], "<item id>")
				continue
			}
			it, known := byID[id]
			if !known {
				fmt.Println("no such item:", id)
				continue
			}
			if fields[0] == "add" {
				err = s.Add(it)
			} else {
				err = s.Remove(id)
			}
			if err == nil {
				printCart(s.Snapshot())
			}
		case "cart":
			printCart(s.Snapshot())
		case "submit":
			err = s.Submit(ctx)
		case "save":
			err = s.SaveEdits(ctx)
		case "cancel":
			err = s.CancelEdit()
			if err == nil {
				printCart(s.Snapshot())
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", fields[0])
			continue
		}
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if msg := s.Snapshot().Message; msg != "" && fields[0] != "add" && fields[0] != "remove" && fields[0] != "cart" {
			fmt.Println(msg)
		}
	}
}

func printMenu(items []domain.Item) {
	for _, course := range services.GroupByCourse(items) {
		fmt.Printf("\n%s\n", course.Name)
		for _, it := range course.Items {
			desc := "No description available."
			if it.Description != nil && *it.Description != "" {
				desc = *it.Description
			}
			fmt.Printf("  [%d] %-22s $%s  %s\n", it.ID, it.Name, it.Price.StringFixed(2), desc)
		}
	}
	fmt.Println()
}

func printCart(snap session.Snapshot) {
	lines := snap.Cart.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Printf("  %dx %s\n", l.Quantity, l.Item.Name)
	}
	fmt.Printf("  total $%s (%s)\n", snap.Cart.Total().StringFixed(2), snap.State)
}

func parseID(fields []string) (uint64, bool) {
	if len(fields) != 2 {
		return 0, false
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	return id, err == nil
}
