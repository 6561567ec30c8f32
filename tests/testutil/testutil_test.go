package testutil

import (
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("buyer"), NewTestUUID("buyer"))
	assert.NotEqual(t, NewTestUUID("buyer"), NewTestUUID("vendor"))
}

func TestContext(t *testing.T) {
	ctx := Context(t, time.Minute)
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)
}

func TestRequireEventually(t *testing.T) {
	var n atomic.Int32
	go func() {
		time.Sleep(20 * time.Millisecond)
		n.Store(1)
	}()
	RequireEventually(t, func() bool { return n.Load() == 1 }, time.Second)
}

func TestAssertNever(t *testing.T) {
	AssertNever(t, func() bool { return false }, 30*time.Millisecond)
}

func TestAPIClient(t *testing.T) {
	userID := NewTestUUID("client")
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data": gin.H{
				"user": c.GetHeader("X-User-ID"),
				"role": c.GetHeader("X-User-Role"),
				"name": body["name"],
			},
		})
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "ERR_NOT_FOUND", "message": "gone"}})
	})

	client := NewAPIClient(t, engine, userID, "customer")

	var out struct {
		User string `json:"user"`
		Role string `json:"role"`
		Name string `json:"name"`
	}
	env := client.DoInto(http.MethodPost, "/echo", map[string]string{"name": "rug"}, http.StatusCreated, &out)
	assert.True(t, env.Success)
	assert.Equal(t, userID.String(), out.User)
	assert.Equal(t, "customer", out.Role)
	assert.Equal(t, "rug", out.Name)

	code, env := client.As(uuid.New(), "vendor").Do(http.MethodGet, "/fail", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ERR_NOT_FOUND", env.ErrorCode())
}
