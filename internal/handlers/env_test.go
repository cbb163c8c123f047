package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"github.com/yukikurage/team-task-tracker/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv is the full API on an in-memory database. Sessions are minted by
// an extra test-only route so tests can act as any user.
type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	provider *testutil.MockBillingProvider
	cookies  map[string][]*http.Cookie
}

type envOptions struct {
	reportURL string
	ai        *services.AIService
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := zap.NewNop()

	taskRepo := repository.NewTaskRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	directory := identity.NewLocalDirectory(orgRepo, userRepo)
	provider := new(testutil.MockBillingProvider)

	teamService := services.NewTeamService(taskRepo, directory, log)
	deps := Dependencies{
		TaskRepo:            taskRepo,
		OrgRepo:             orgRepo,
		Directory:           directory,
		AuthService:         services.NewAuthService(userRepo),
		OrganizationService: services.NewOrganizationService(orgRepo, directory),
		TaskService:         services.NewTaskService(taskRepo, directory, log),
		TeamService:         teamService,
		ReportService:       services.NewReportService(opts.reportURL, teamService, orgRepo, opts.ai, log),
		BillingService:      services.NewBillingService(provider, subRepo, directory, "https://app.example.com", log),
		AccessService:       services.NewAccessService(subRepo, log),
		LogService:          services.NewLogService(repository.NewLogRepository(db)),
	}

	router := gin.New()
	router.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	router.POST("/test/session/:user_id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, c.Param("user_id"))
		if err := session.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	RegisterRoutes(router, deps)

	return &testEnv{
		t:        t,
		db:       db,
		router:   router,
		provider: provider,
		cookies:  make(map[string][]*http.Cookie),
	}
}

func (e *testEnv) sessionFor(userID string) []*http.Cookie {
	if cookies, ok := e.cookies[userID]; ok {
		return cookies
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test/session/"+userID, nil))
	require.Equal(e.t, http.StatusNoContent, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(e.t, cookies)
	e.cookies[userID] = cookies
	return cookies
}

// do sends a request as userID; an empty userID sends it anonymously.
func (e *testEnv) do(method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		for _, c := range e.sessionFor(userID) {
			req.AddCookie(c)
		}
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) team(t *testing.T) (*models.Organization, *models.User, *models.User) {
	org := testutil.CreateOrganization(t, e.db, "Team")
	admin := testutil.CreateUser(t, e.db, "admin@example.com")
	member := testutil.CreateUser(t, e.db, "member@example.com")
	testutil.AddMember(t, e.db, org.ID, admin.ID, models.RoleAdmin)
	testutil.AddMember(t, e.db, org.ID, member.ID, models.RoleMember)
	return org, admin, member
}

func (e *testEnv) subscribe(userID string) {
	require.NoError(e.t, e.db.Create(&models.Subscription{
		UserID:         userID,
		SubscriptionID: "sub_" + userID,
		Active:         true,
	}).Error)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
