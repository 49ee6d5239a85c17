package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"yatube/internal/models"
	"yatube/internal/store"
)

var errUsage = errors.New(strings.TrimSpace(usage))

func run(ctx context.Context, st *store.Store, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch args[0] {
	case "create-group":
		title := fs.String("title", "", "group title")
		slug := fs.String("slug", "", "unique slug used in the group URL")
		desc := fs.String("description", "", "group description")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *title == "" || *slug == "" {
			return errors.New("create-group: -title and -slug are required")
		}
		g := &models.Group{Title: *title, Slug: *slug, Description: *desc}
		if err := st.CreateGroup(ctx, g); err != nil {
			return err
		}
		fmt.Fprintf(out, "created group %d %s\n", g.ID, g.Slug)

	case "list-groups":
		groups, err := st.ListGroups(ctx)
		if err != nil {
			return err
		}
		for _, g := range groups {
			fmt.Fprintf(out, "%d\t%s\t%s\n", g.ID, g.Slug, g)
		}

	case "delete-group":
		slug := fs.String("slug", "", "slug of the group to delete")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		g, err := st.GroupBySlug(ctx, *slug)
		if err != nil {
			return fmt.Errorf("delete-group %q: %w", *slug, err)
		}
		if err := st.DeleteGroup(ctx, g.ID); err != nil {
			return err
		}
		// posts stay, only their group link is cleared
		fmt.Fprintf(out, "deleted group %s\n", g.Slug)

	case "delete-user":
		username := fs.String("username", "", "user to delete with all their posts, comments and follows")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		u, err := st.UserByUsername(ctx, *username)
		if err != nil {
			return fmt.Errorf("delete-user %q: %w", *username, err)
		}
		if err := st.DeleteUser(ctx, u.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted user %s\n", u.Username)

	case "delete-post":
		id := fs.Uint("id", 0, "id of the post to delete")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		p, err := st.PostByID(ctx, uint(*id))
		if err != nil {
			return fmt.Errorf("delete-post %d: %w", *id, err)
		}
		if err := st.DeletePost(ctx, p.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted post %d %q\n", p.ID, p.String())

	default:
		return errUsage
	}
	return nil
}
