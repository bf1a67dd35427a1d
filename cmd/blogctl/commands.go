package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sushihentaime/blogbook/internal/blogservice"
	"github.com/sushihentaime/blogbook/internal/client"
)

// recentCount is how many recent blogs show lists under the blog.
const recentCount = 3

func (c *cli) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func (c *cli) signupCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.client.Signup(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are signed in as %s\n", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, ok := c.client.Guard().CurrentUser()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %d)\n", u.Name, u.Email, u.ID)
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var q client.Query
	var sort string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client.Refresh(cmd.Context()); err != nil {
				return err
			}

			q.Sort = client.Sort(sort)
			view := c.client.Query(q)
			c.printBlogs(cmd.OutOrStdout(), view.Blogs)
			if view.Pages > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "\npage %d of %d (%d blogs)\n", view.Page, view.Pages, view.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "only blogs whose title, content or author contain this text")
	cmd.Flags().StringVar(&sort, "sort", string(client.SortNewest), "newest, oldest or featured")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")

	return cmd
}

func (c *cli) featuredCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "List featured blogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client.Refresh(cmd.Context()); err != nil {
				return err
			}
			c.printBlogs(cmd.OutOrStdout(), c.client.Featured(n))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 3, "how many to show")

	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			b, err := c.client.Blog(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", b.Title)
			fmt.Fprintf(w, "by %s on %s", b.Author, b.Date)
			if b.Featured {
				fmt.Fprint(w, " (featured)")
			}
			fmt.Fprintf(w, "\n\n%s\n", blogservice.StripScripts(b.Content))
			if c.client.Guard().IsOwner(b) {
				fmt.Fprintf(w, "\nYou own this blog: blogctl edit %d / blogctl delete %d\n", b.ID, b.ID)
			}

			if err := c.client.Refresh(cmd.Context()); err != nil {
				c.logger.Warn("could not load recent blogs", slog.String("error", err.Error()))
				return nil
			}
			fmt.Fprintln(w, "\nRecent blogs")
			c.printBlogs(w, c.client.Recent(recentCount))
			return nil
		},
	}
}

func blogFormFlags(cmd *cobra.Command, f *client.BlogForm) {
	cmd.Flags().StringVar(&f.Title, "title", "", "title (at least 5 characters)")
	cmd.Flags().StringVar(&f.Content, "content", "", "content (at least 20 characters)")
	cmd.Flags().StringVar(&f.Author, "author", "", "author name (at least 2 characters)")
	cmd.Flags().BoolVar(&f.Featured, "featured", false, "feature this blog")
}

func (c *cli) createCmd() *cobra.Command {
	var f client.BlogForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new blog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := c.client.CreateBlog(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created blog %d\n", b.ID)
			return nil
		},
	}
	blogFormFlags(cmd, &f)

	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var f client.BlogForm

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a blog you own; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := c.client.Blog(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !c.client.Guard().IsAuthenticated() {
				return client.ErrNotAuthenticated
			}
			if !c.client.Guard().IsOwner(current) {
				return client.ErrForbidden
			}

			flags := cmd.Flags()
			if !flags.Changed("title") {
				f.Title = current.Title
			}
			if !flags.Changed("content") {
				f.Content = current.Content
			}
			if !flags.Changed("author") {
				f.Author = current.Author
			}
			if !flags.Changed("featured") {
				f.Featured = current.Featured
			}

			b, err := c.client.UpdateBlog(cmd.Context(), id, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated blog %d\n", b.ID)
			return nil
		},
	}
	blogFormFlags(cmd, &f)

	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a blog you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := c.client.DeleteBlog(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted blog %d\n", id)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid blog id %q", s)
	}
	return id, nil
}

func (c *cli) printBlogs(w io.Writer, blogs []blogservice.Blog) {
	if len(blogs) == 0 {
		fmt.Fprintln(w, "No blogs found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAUTHOR\tTITLE\t")
	for _, b := range blogs {
		title := b.Title
		if b.Featured {
			title = "* " + title
		}
		if c.client.Guard().IsOwner(&b) {
			title += " (yours)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", b.ID, b.Date, b.Author, title)
	}
	tw.Flush()
}
