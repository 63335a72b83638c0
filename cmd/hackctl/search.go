package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hackhub-web/internal/apiclient"
	"hackhub-web/internal/notify"
	"hackhub-web/internal/search"
)

var (
	notificationsUnread bool
	notificationsLimit  int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users, events and posts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications of the current user",
	RunE:  runNotifications,
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the resolved API configuration",
	RunE:  runEnv,
}

func init() {
	notificationsCmd.Flags().BoolVar(&notificationsUnread, "unread", false, "only unread notifications")
	notificationsCmd.Flags().IntVar(&notificationsLimit, "limit", 20, "maximum notifications to list")

	rootCmd.AddCommand(searchCmd, notificationsCmd, envCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	res := search.NewAggregator(a.api, search.DefaultLimits, a.logger).SearchAll(cmd.Context(), strings.Join(args, " "))
	out := cmd.OutOrStdout()
	if res.Total() == 0 {
		fmt.Fprintln(out, "No results")
		return nil
	}
	printGroup := func(title string, items []search.Result) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(out, "%s:\n", title)
		for _, r := range items {
			if r.Subtitle != "" {
				fmt.Fprintf(out, "  %-40s %s\n    %s\n", r.Title, r.URL, r.Subtitle)
				continue
			}
			fmt.Fprintf(out, "  %-40s %s\n", r.Title, r.URL)
		}
	}
	printGroup("Users", res.Users)
	printGroup("Events", res.Categories)
	printGroup("Posts", res.Posts)
	return nil
}

func runNotifications(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	userID, err := a.requireSession()
	if err != nil {
		return err
	}
	page, err := a.api.ListNotifications(cmd.Context(), userID, apiclient.Paginate(0, notificationsLimit), notificationsUnread)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, item := range notify.Annotate(page.Items) {
		mark := " "
		if !item.IsRead {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-60s %s\n", mark, item.Message, item.Action.URL)
	}
	fmt.Fprintf(out, "%d of %d\n", len(page.Items), page.Total)
	return nil
}

func runEnv(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), a.api.BaseURL())
	return nil
}
