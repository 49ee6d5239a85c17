// Package seed fills a database with demo users, groups, posts, comments and
// follows. Development only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"
	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/utils"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/pkg/errors"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "yatube-demo"

type Options struct {
	Users    int
	Groups   int
	Posts    int
	Comments int // per post, at most
	MaxDays  int // spread of created_at into the past
}

func DefaultOptions() Options {
	return Options{Users: 10, Groups: 4, Posts: 60, Comments: 3, MaxDays: 60}
}

// Result counts what was written.
type Result struct {
	Users, Groups, Posts, Comments, Follows int
}

type Seeder struct {
	store *store.Store
	faker *gofakeit.Faker
}

// NewSeeder uses seed for the faker; 0 picks a random seed.
func NewSeeder(st *store.Store, seed int64) *Seeder {
	return &Seeder{store: st, faker: gofakeit.New(seed)}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}
	hash, err := utils.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u := &models.User{
			Username:  fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i),
			FirstName: s.faker.FirstName(),
			LastName:  s.faker.LastName(),
			Email:     s.faker.Email(),
			Password:  hash,
		}
		if err := s.store.CreateUser(ctx, u); err != nil {
			return res, errors.Wrap(err, "seed user")
		}
		users = append(users, u)
		res.Users++
	}
	if len(users) == 0 {
		return res, nil
	}

	groups := make([]*models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		title := strings.Title(s.faker.BuzzWord()) + " " + strings.Title(s.faker.HackerNoun())
		g := &models.Group{
			Title:       title,
			Slug:        fmt.Sprintf("%s-%d", slugify(title), i),
			Description: s.faker.Sentence(12),
		}
		if err := s.store.CreateGroup(ctx, g); err != nil {
			return res, errors.Wrap(err, "seed group")
		}
		groups = append(groups, g)
		res.Groups++
	}

	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 1
	}
	for i := 0; i < opts.Posts; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		p := &models.Post{
			Text:      s.faker.Paragraph(1, 3, 12, "\n\n"),
			AuthorID:  author.ID,
			CreatedAt: time.Now().Add(-time.Duration(s.faker.Number(0, maxDays*24*60)) * time.Minute),
		}
		// roughly two posts in three are filed under a group
		if len(groups) > 0 && s.faker.Number(0, 2) > 0 {
			p.GroupID = &groups[s.faker.Number(0, len(groups)-1)].ID
		}
		if err := s.store.CreatePost(ctx, p); err != nil {
			return res, errors.Wrap(err, "seed post")
		}
		res.Posts++

		for j := s.faker.Number(0, opts.Comments); j > 0; j-- {
			c := &models.Comment{
				PostID:   p.ID,
				AuthorID: users[s.faker.Number(0, len(users)-1)].ID,
				Text:     s.faker.Sentence(s.faker.Number(3, 15)),
			}
			if err := s.store.CreateComment(ctx, c); err != nil {
				return res, errors.Wrap(err, "seed comment")
			}
			res.Comments++
		}
	}

	// everyone follows the next user round the ring
	if len(users) > 1 {
		for i, u := range users {
			next := users[(i+1)%len(users)]
			if _, err := s.store.CreateFollow(ctx, u.ID, next.ID); err != nil {
				return res, errors.Wrap(err, "seed follow")
			}
			res.Follows++
		}
	}
	return res, nil
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
