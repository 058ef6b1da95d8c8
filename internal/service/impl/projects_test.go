package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdhive/crowdhive/internal/hive"
	hivemock "github.com/crowdhive/crowdhive/internal/hive/mock"
	"github.com/crowdhive/crowdhive/internal/service"
	"github.com/crowdhive/crowdhive/internal/wallet"
)

func projectMetadata(category string, goal interface{}) hive.Metadata {
	return hive.Metadata(fmt.Sprintf(
		`{"app":"crowdhive/1.0.0","tags":["crowdhive","crowdhive-project"],"project":{"type":"project","category":%q,"fundingGoal":%v}}`,
		category, goal,
	))
}

func TestProjects_ListProjects(t *testing.T) {
	ctrl := gomock.NewController(t)

	c := hivemock.NewMockClient(ctrl)
	p := NewProjects(c, nil)

	c.EXPECT().GetRankedPosts(gomock.Any(), hive.RankedPostsQuery{
		Tag:   "crowdhive",
		Sort:  "created",
		Limit: 2,
	}).Return([]hive.Post{
		{Author: "a", Permlink: "p1", JSONMetadata: projectMetadata("Art", 100)},
		{Author: "b", Permlink: "blog", JSONMetadata: hive.Metadata(`{"app":"peakd/1.0","tags":["crowdhive"]}`)},
		{Author: "c", Permlink: "p2", JSONMetadata: projectMetadata("Games", `"50"`)},
		{Author: "d", Permlink: "p3", JSONMetadata: projectMetadata("Music", 10)},
	}, nil)

	list, err := p.ListProjects(ctx, service.ListProjectsParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a-p1", list[0].ID())
	require.Equal(t, "c-p2", list[1].ID())
	require.Equal(t, "50 HIVE", list[1].Target())
}

func TestProjects_ListProjects_Cursor(t *testing.T) {
	ctrl := gomock.NewController(t)

	c := hivemock.NewMockClient(ctrl)
	p := NewProjects(c, nil)

	c.EXPECT().GetRankedPosts(gomock.Any(), hive.RankedPostsQuery{
		Tag:           "crowdhive",
		Sort:          "trending",
		Limit:         20,
		Observer:      "alice",
		StartAuthor:   "a",
		StartPermlink: "p1",
	}).Return(nil, hive.ErrNotFound)

	list, err := p.ListProjects(ctx, service.ListProjectsParams{
		Sort:     "trending",
		Observer: "alice",
		After:    &service.PostID{Author: "a", Permlink: "p1"},
	})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestProjects_ListProjects_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)

	c := hivemock.NewMockClient(ctrl)
	p := NewProjects(c, nil)

	_, err := p.ListProjects(ctx, service.ListProjectsParams{Sort: "random"})
	require.True(t, errors.Is(err, service.ErrInvalidRequest))

	_, err = p.ListProjects(ctx, service.ListProjectsParams{Limit: 101})
	require.True(t, errors.Is(err, service.ErrInvalidRequest))

	c.EXPECT().GetRankedPosts(gomock.Any(), gomock.Any()).Return(nil, hive.ErrNetwork)
	_, err = p.ListProjects(ctx, service.ListProjectsParams{})
	require.True(t, errors.Is(err, hive.ErrNetwork))
}

func TestProjects_GetProject(t *testing.T) {
	ctrl := gomock.NewController(t)

	c := hivemock.NewMockClient(ctrl)
	p := NewProjects(c, nil)

	c.EXPECT().GetContent(gomock.Any(), "alice", "solar").Return(&hive.Post{
		Author:             "alice",
		Permlink:           "solar",
		Title:              "Solar",
		Body:               "body",
		Created:            "2024-01-02T03:04:05",
		JSONMetadata:       projectMetadata("Energy", 200),
		PendingPayoutValue: "50.000 HBD",
		NetVotes:           3,
	}, nil)

	pr, err := p.GetProject(ctx, "alice", "solar")
	require.NoError(t, err)
	require.Equal(t, "Solar", pr.Title)
	require.Equal(t, "Energy", pr.Category)
	require.Equal(t, "200 HIVE", pr.Target())
	require.Equal(t, "50.000 HIVE", pr.RaisedAmount())
	require.EqualValues(t, 25, pr.Progress)
	require.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), pr.CreatedAt)
	require.EqualValues(t, 3, pr.NetVotes)

	c.EXPECT().GetContent(gomock.Any(), "alice", "missing").Return(nil, hive.ErrNotFound)
	pr, err = p.GetProject(ctx, "alice", "missing")
	require.NoError(t, err)
	require.Nil(t, pr)

	c.EXPECT().GetContent(gomock.Any(), "alice", "solar").Return(nil, hive.ErrNetwork)
	_, err = p.GetProject(ctx, "alice", "solar")
	require.True(t, errors.Is(err, hive.ErrNetwork))
}

func TestProjects_GetProject_MalformedMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)

	c := hivemock.NewMockClient(ctrl)
	p := NewProjects(c, nil)

	c.EXPECT().GetContent(gomock.Any(), "bob", "x").Return(&hive.Post{
		Author:       "bob",
		Permlink:     "x",
		JSONMetadata: hive.Metadata(`{"project":{"fundingGoal":"lots","category":7}}`),
	}, nil)

	pr, err := p.GetProject(ctx, "bob", "x")
	require.NoError(t, err)
	require.Equal(t, defaultImage, pr.Image)
	require.Equal(t, "Uncategorized", pr.Category)
	require.Equal(t, "100 HIVE", pr.Target())
	require.Zero(t, pr.Progress)
}

func TestProjects_CreateProject(t *testing.T) {
	ctrl := gomock.NewController(t)

	b, s, _ := newTestBridge(t)
	c := hivemock.NewMockClient(ctrl)
	p := NewProjects(c, b)

	var posted wallet.PostRequest
	s.EXPECT().Available(gomock.Any()).Return(true)
	s.EXPECT().Post(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r wallet.PostRequest) (*wallet.Response, error) {
		posted = r
		return &wallet.Response{Success: true}, nil
	})

	permlink, err := p.CreateProject(ctx, service.CreateProjectParams{
		Username:    "alice",
		Title:       "Solar Panels for School!",
		Body:        "We need panels",
		Category:    "Art",
		FundingGoal: decimal.NewFromInt(100),
		CoverImage:  "https://x/y.png",
	})
	require.NoError(t, err)
	require.Regexp(t, `^solar-panels-for-school-\d+$`, permlink)
	require.Equal(t, permlink, posted.Permlink)
	require.Equal(t, "", posted.ParentAuthor)
	require.Equal(t, "crowdhive", posted.ParentPermlink)
	require.Equal(t, wallet.PostingAuthority, posted.Authority)

	var m struct {
		App     string   `json:"app"`
		Tags    []string `json:"tags"`
		Format  string   `json:"format"`
		Project struct {
			Type    string `json:"type"`
			Version string `json:"version"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal([]byte(posted.JSONMetadata), &m))
	require.Equal(t, "crowdhive/1.0.0", m.App)
	require.Equal(t, []string{"crowdhive", "crowdhive-project", "art"}, m.Tags)
	require.Equal(t, "markdown", m.Format)
	require.Equal(t, "project", m.Project.Type)
	require.Equal(t, "1.0.0", m.Project.Version)

	c.EXPECT().GetContent(gomock.Any(), "alice", permlink).Return(&hive.Post{
		Author:       "alice",
		Permlink:     permlink,
		Title:        posted.Title,
		JSONMetadata: hive.Metadata(posted.JSONMetadata),
	}, nil)

	pr, err := p.GetProject(ctx, "alice", permlink)
	require.NoError(t, err)
	require.Equal(t, "Art", pr.Category)
	require.Equal(t, "100 HIVE", pr.Target())
	require.Equal(t, "https://x/y.png", pr.Image)
}

func TestProjects_CreateProject_LongTitle(t *testing.T) {
	ctrl := gomock.NewController(t)

	b, s, _ := newTestBridge(t)
	p := NewProjects(hivemock.NewMockClient(ctrl), b)

	s.EXPECT().Available(gomock.Any()).Return(true)
	s.EXPECT().Post(gomock.Any(), gomock.Any()).Return(&wallet.Response{Success: true}, nil)

	permlink, err := p.CreateProject(ctx, service.CreateProjectParams{
		Username:    "alice",
		Title:       strings.Repeat("a", 255),
		Body:        "b",
		Category:    "c",
		FundingGoal: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	require.LessOrEqual(t, len(permlink), 256)
	require.Regexp(t, `^a{200}-\d+$`, permlink)
}

func TestProjects_CreateProject_Invalid(t *testing.T) {
	tt := []struct {
		name   string
		params service.CreateProjectParams
	}{
		{
			name: "no title",
			params: service.CreateProjectParams{
				Username: "alice", Body: "b", Category: "c", FundingGoal: decimal.NewFromInt(1),
			},
		},
		{
			name: "no username",
			params: service.CreateProjectParams{
				Title: "t", Body: "b", Category: "c", FundingGoal: decimal.NewFromInt(1),
			},
		},
		{
			name: "zero goal",
			params: service.CreateProjectParams{
				Username: "alice", Title: "t", Body: "b", Category: "c",
			},
		},
		{
			name: "negative goal",
			params: service.CreateProjectParams{
				Username: "alice", Title: "t", Body: "b", Category: "c", FundingGoal: decimal.NewFromInt(-5),
			},
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			p := NewProjects(nil, nil)

			_, err := p.CreateProject(ctx, tc.params)
			require.True(t, errors.Is(err, service.ErrInvalidRequest), err)
		})
	}
}

func TestProjects_CreateProject_Rejected(t *testing.T) {
	b, s, _ := newTestBridge(t)
	p := NewProjects(nil, b)

	s.EXPECT().Available(gomock.Any()).Return(true)
	s.EXPECT().Post(gomock.Any(), gomock.Any()).Return(&wallet.Response{Success: false}, nil)

	_, err := p.CreateProject(ctx, service.CreateProjectParams{
		Username: "alice", Title: "t", Body: "b", Category: "c", FundingGoal: decimal.NewFromInt(1),
	})
	require.True(t, errors.Is(err, wallet.ErrPostRejected))

	var r *wallet.RejectedError
	require.True(t, errors.As(err, &r))
	require.Equal(t, "Failed to post project to Hive Blockchain", r.Message)
}

func TestProjects_Timestamp(t *testing.T) {
	p := NewProjects(nil, nil).(*projects)

	fixed := time.Unix(1700000000, 0)
	p.now = func() time.Time { return fixed }

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		ts := p.timestamp()
		assert.False(t, seen[ts])
		seen[ts] = true
	}
}

func TestSlug(t *testing.T) {
	tt := []struct {
		title string
		slug  string
	}{
		{title: "Solar Panels", slug: "solar-panels"},
		{title: "  Hello,   World!  ", slug: "hello-world"},
		{title: "snake_case title", slug: "snake-case-title"},
		{title: "!!!", slug: "project"},
		{title: "Привет", slug: "project"},
		{title: strings.Repeat("ab ", 100), slug: strings.TrimRight(strings.Repeat("ab-", 67)[:200], "-")},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.title, func(t *testing.T) {
			require.Equal(t, tc.slug, slug(tc.title))
		})
	}
}

func TestProgress(t *testing.T) {
	tt := []struct {
		raised, target string
		progress       uint8
	}{
		{raised: "0", target: "100", progress: 0},
		{raised: "25", target: "100", progress: 25},
		{raised: "1", target: "3", progress: 33},
		{raised: "2", target: "3", progress: 67},
		{raised: "500", target: "100", progress: 100},
		{raised: "-5", target: "100", progress: 0},
		{raised: "5", target: "0", progress: 0},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.raised+"/"+tc.target, func(t *testing.T) {
			require.Equal(t, tc.progress, progress(decimal.RequireFromString(tc.raised), decimal.RequireFromString(tc.target)))
		})
	}
}

func TestIsProject(t *testing.T) {
	tt := []struct {
		name     string
		metadata string
		ok       bool
	}{
		{name: "project", metadata: `{"app":"crowdhive/1.0.0","tags":["crowdhive-project"]}`, ok: true},
		{name: "single tag", metadata: `{"app":"crowdhive/1.0.0","tags":"crowdhive-project"}`, ok: true},
		{name: "foreign app", metadata: `{"app":"peakd","tags":["crowdhive-project"]}`},
		{name: "no tag", metadata: `{"app":"crowdhive/1.0.0","tags":["crowdhive"]}`},
		{name: "malformed", metadata: `{"app":`},
		{name: "empty", metadata: ``},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			m, _ := parseMetadata([]byte(tc.metadata))
			require.Equal(t, tc.ok, m.isProject())
		})
	}
}
