package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/darhlilove/streambase"
	"github.com/darhlilove/streambase/client"
)

func newSearchCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the movie catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			result, err := a.api.SearchMovies(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}

			fmt.Printf("Page %d/%d (%d results)\n", result.Page, result.TotalPages, result.TotalResults)
			for _, m := range result.Results {
				fmt.Printf("  %s  %s (%d)  %.1f\n", m.ID, m.Title, m.ReleaseYear, m.Rating)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func newListCmd() *cobra.Command {
	var add, remove, title string

	cmd := &cobra.Command{
		Use:   "list <favorites|watchlist|watched>",
		Short: "Show or edit one of your lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !a.auther.IsLoggedIn() {
				return streambase.ErrNotSignedIn
			}

			kind := client.ListKind(args[0])

			switch {
			case add != "":
				return a.api.AddToList(cmd.Context(), kind, client.Movie{ID: add, Title: title})
			case remove != "":
				return a.api.RemoveFromList(cmd.Context(), kind, remove)
			default:
				entries, err := a.api.ListEntries(cmd.Context(), kind)
				if err != nil {
					// Offline fallback: render the last mirrored snapshot.
					if a.cache != nil && streambase.IsNetworkError(err) {
						cached, cacheErr := a.cache.ListEntries(cmd.Context(), kind)
						if cacheErr == nil {
							fmt.Println("(offline, showing cached entries)")
							for _, e := range cached {
								fmt.Printf("  %s  %s\n", e.MovieID, e.Title)
							}
							return nil
						}
					}
					return err
				}
				if a.cache != nil {
					if err := a.cache.ReplaceList(cmd.Context(), kind, entries); err != nil {
						a.logger.Error("mirror %s list: %v", kind, err)
					}
				}
				for _, e := range entries {
					fmt.Printf("  %s  %s\n", e.MovieID, e.Title)
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&add, "add", "", "movie id to add")
	cmd.Flags().StringVar(&remove, "remove", "", "movie id to remove")
	cmd.Flags().StringVar(&title, "title", "", "movie title when adding")
	return cmd
}

func newRequestCmd() *cobra.Command {
	var kind, note string

	cmd := &cobra.Command{
		Use:   "request <title>",
		Short: "Request a title that is missing from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			req, err := a.api.SubmitRequest(cmd.Context(), args[0], kind, note)
			if err != nil {
				return err
			}

			fmt.Printf("Request %s filed (%s).\n", req.ID, req.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "movie", "movie or tv")
	cmd.Flags().StringVar(&note, "note", "", "optional note for the reviewers")
	return cmd
}

func newNotificationsCmd() *cobra.Command {
	var markAllRead, watch bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show your notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			principal := a.auther.Sessions().Principal()
			if !principal.IsUser() {
				return streambase.ErrNotSignedIn
			}

			if markAllRead {
				if err := a.api.MarkAllRead(cmd.Context(), principal.ID); err != nil {
					return err
				}
				if a.cache != nil {
					if err := a.cache.MarkAllRead(cmd.Context(), principal.ID); err != nil {
						a.logger.Error("mark cached notifications read: %v", err)
					}
				}
				return nil
			}

			if watch {
				return watchNotifications(a, principal.ID)
			}

			batch, err := a.api.Fetch(cmd.Context(), principal.ID)
			if err != nil {
				return err
			}
			if a.cache != nil {
				if err := a.cache.UpsertNotifications(cmd.Context(), batch); err != nil {
					a.logger.Error("mirror notifications: %v", err)
				}
			}
			printNotifications(batch)
			return nil
		},
	}

	cmd.Flags().BoolVar(&markAllRead, "mark-all-read", false, "mark every notification as read")
	cmd.Flags().BoolVar(&watch, "watch", false, "poll for notifications until interrupted")
	return cmd
}

// watchNotifications runs the notification poller in the foreground until
// the process is interrupted, then stops the handle so the loop exits
// cleanly.
func watchNotifications(a *app, userID string) error {
	poller := streambase.NewPoller(a.api, printNotifications).
		WithInterval(a.cfg.PollInterval).
		WithLogger(a.logger)

	handle := poller.Start(userID)
	defer handle.Stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	return nil
}

func printNotifications(batch []streambase.Notification) {
	for _, n := range batch {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Message)
	}
}
