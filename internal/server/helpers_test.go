package server

import (
	"net/http/httptest"
	"testing"

	"forum/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=0", 20, 0},
		{"?limit=1000", maxPaginationLimit, 0},
		{"?offset=-3", 20, 0},
		{"?limit=abc", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, defaultPaginationLimit)
				return nil
			})
			_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestParseID(t *testing.T) {
	app := NewApp()
	app.Get("/posts/:id/comments/:commentId", func(c *fiber.Ctx) error {
		if _, err := parseID(c, "id"); err != nil {
			return models.RespondWithError(c, err)
		}
		if _, err := parseID(c, "commentId"); err != nil {
			return models.RespondWithError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/posts/1/comments/2", fiber.StatusNoContent, ""},
		{"/posts/abc/comments/2", fiber.StatusBadRequest, "Invalid ID"},
		{"/posts/0/comments/2", fiber.StatusBadRequest, "Invalid ID"},
		{"/posts/1/comments/-4", fiber.StatusBadRequest, "Invalid comment ID"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeError(t, resp))
			}
		})
	}
}

func TestParseOptionalID(t *testing.T) {
	tests := []struct {
		query   string
		want    *uint
		wantErr bool
	}{
		{query: "", want: nil},
		{query: "?studyProgramId=3", want: func() *uint { v := uint(3); return &v }()},
		{query: "?studyProgramId=0", wantErr: true},
		{query: "?studyProgramId=x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got *uint
			var gotErr error
			app.Get("/", func(c *fiber.Ctx) error {
				got, gotErr = parseOptionalID(c, "studyProgramId")
				return nil
			})
			_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			if tt.wantErr {
				assert.True(t, models.IsKind(gotErr, models.KindValidation))
				return
			}
			assert.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "comment ID", humanizeParam("commentId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestErrorHandler(t *testing.T) {
	app := NewApp()
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/plain", func(c *fiber.Ctx) error { return assert.AnError })
	app.Get("/forbidden", func(c *fiber.Ctx) error { return models.NewForbiddenError() })

	resp, err := app.Test(httptest.NewRequest("GET", "/fiber", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", decodeError(t, resp))

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.MsgInternal, decodeError(t, resp))

	resp, err = app.Test(httptest.NewRequest("GET", "/forbidden", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, models.MsgAccessDenied, decodeError(t, resp))

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
