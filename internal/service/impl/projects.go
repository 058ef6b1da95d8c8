package impl

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gookit/validate"

	"github.com/crowdhive/crowdhive/internal/entities"
	"github.com/crowdhive/crowdhive/internal/hive"
	"github.com/crowdhive/crowdhive/internal/service"
	"github.com/crowdhive/crowdhive/internal/wallet"
)

const (
	defaultSort  = "created"
	defaultLimit = 20
	maxLimit     = 100

	parentPermlink = "crowdhive"
)

var sorts = map[string]bool{
	"trending":        true,
	"hot":             true,
	"created":         true,
	"promoted":        true,
	"payout":          true,
	"payout_comments": true,
	"muted":           true,
}

// maxSlugLength leaves room for the timestamp suffix within the 256 byte permlink limit of hive.
const maxSlugLength = 200

var (
	nonWordRegexp   = regexp.MustCompile(`[^\w\s]`)
	separatorRegexp = regexp.MustCompile(`[\s_]+`)
)

type projects struct {
	c hive.Client
	w service.Wallet

	now  func() time.Time
	mu   sync.Mutex
	last int64
}

// NewProjects creates new instance of projects repository.
func NewProjects(c hive.Client, w service.Wallet) service.Projects {
	return &projects{
		c:   c,
		w:   w,
		now: time.Now,
	}
}

func (p *projects) ListProjects(ctx context.Context, params service.ListProjectsParams) ([]*entities.Project, error) {
	if params.Tag == "" {
		params.Tag = defaultTag
	}
	if params.Sort == "" {
		params.Sort = defaultSort
	}
	if params.Limit == 0 {
		params.Limit = defaultLimit
	}

	if !sorts[params.Sort] {
		return nil, fmt.Errorf("%w: unknown sort %s", service.ErrInvalidRequest, params.Sort)
	}
	if params.Limit > maxLimit {
		return nil, fmt.Errorf("%w: limit should be less or equal to %d", service.ErrInvalidRequest, maxLimit)
	}

	q := hive.RankedPostsQuery{
		Tag:      params.Tag,
		Sort:     params.Sort,
		Limit:    params.Limit,
		Observer: params.Observer,
	}
	if params.After != nil {
		q.StartAuthor, q.StartPermlink = params.After.Author, params.After.Permlink
	}

	posts, err := p.c.GetRankedPosts(ctx, q)
	if err != nil {
		if errors.Is(err, hive.ErrNotFound) {
			return []*entities.Project{}, nil
		}
		return nil, fmt.Errorf("failed to get ranked posts: %w", err)
	}

	out := make([]*entities.Project, 0, len(posts))
	for _, v := range posts {
		if m, ok := parseMetadata(v.JSONMetadata); !ok || !m.isProject() {
			continue
		}

		out = append(out, toProject(v))
		if len(out) == int(params.Limit) {
			break
		}
	}

	return out, nil
}

func (p *projects) GetProject(ctx context.Context, author, permlink string) (*entities.Project, error) {
	post, err := p.c.GetContent(ctx, author, permlink)
	if err != nil {
		if errors.Is(err, hive.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	return toProject(*post), nil
}

func (p *projects) CreateProject(ctx context.Context, params service.CreateProjectParams) (string, error) {
	if v := validate.Struct(params); !v.Validate() {
		return "", fmt.Errorf("%w: %s", service.ErrInvalidRequest, v.Errors.One())
	}

	if !params.FundingGoal.IsPositive() {
		return "", fmt.Errorf("%w: funding goal should be positive", service.ErrInvalidRequest)
	}

	metadata, err := buildMetadata(params.Category, params.FundingGoal, params.CoverImage, params.SocialLinks)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	permlink := fmt.Sprintf("%s-%d", slug(params.Title), p.timestamp())

	log.WithField("username", params.Username).WithField("permlink", permlink).Debug("posting project")

	return p.w.RequestPost(ctx, wallet.PostRequest{
		Username:       params.Username,
		Title:          params.Title,
		Body:           params.Body,
		ParentAuthor:   "",
		ParentPermlink: parentPermlink,
		Permlink:       permlink,
		JSONMetadata:   string(metadata),
		Authority:      wallet.PostingAuthority,
	})
}

// timestamp returns unix milliseconds which are strictly increasing within the process.
func (p *projects) timestamp() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	ts := p.now().UnixNano() / int64(time.Millisecond)
	if ts <= p.last {
		ts = p.last + 1
	}
	p.last = ts

	return ts
}

func slug(title string) string {
	s := nonWordRegexp.ReplaceAllString(strings.ToLower(title), "")
	s = strings.Trim(separatorRegexp.ReplaceAllString(s, "-"), "-")

	// only ascii is left here
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}

	if s == "" {
		return "project"
	}

	return s
}
