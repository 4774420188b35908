// Package httpapi exposes the service over HTTP: registration, login,
// account administration, folder creation and file upload. Handlers decode
// the request, call a service and write the JSON response envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"

	"filesafe/internal/common"
	"filesafe/internal/logging"
	"filesafe/internal/server/models"
)

// PersonService is the account-facing surface the API depends on.
type PersonService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Get(ctx context.Context, personID string) (*models.Person, error)
	List(ctx context.Context) ([]*models.Person, error)
	Update(ctx context.Context, personID string, upd models.PersonUpdate) error
}

// FolderService creates folders on behalf of an authenticated person.
type FolderService interface {
	Create(ctx context.Context, ownerID, name, destination string) (string, error)
}

// FileService stores and lists uploaded files on behalf of an authenticated
// person.
type FileService interface {
	Add(ctx context.Context, ownerID, folderID, name, srcPath string, size int64, contentType string) (string, error)
	ListFolder(ctx context.Context, ownerID, folderID string) ([]*models.File, error)
}

type HTTPServer struct {
	address      string
	logger       logging.Logger
	persons      PersonService
	folders      FolderService
	files        FileService
	jwtSecret    []byte
	serviceToken string
}

func NewHTTPServer(address string, l logging.Logger, ps PersonService, fos FolderService, fis FileService, secretKey, serviceToken string) *HTTPServer {
	return &HTTPServer{
		address:      address,
		logger:       l.With("module", "http_server"),
		persons:      ps,
		folders:      fos,
		files:        fis,
		jwtSecret:    []byte(secretKey),
		serviceToken: serviceToken,
	}
}

// Handler builds the route table wrapped with CORS.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/person", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/person", s.requireServiceToken(s.handleListPersons))
	mux.HandleFunc("GET /api/person/{personUUID}", s.requireServiceToken(s.handleGetPerson))
	mux.HandleFunc("PUT /api/person/{personUUID}", s.requireServiceToken(s.handleUpdatePerson))

	mux.HandleFunc("POST /api/folder", s.requireAccessToken(s.handleCreateFolder))
	mux.HandleFunc("POST /api/file", s.requireAccessToken(s.handleAddFile))
	mux.HandleFunc("GET /api/folder/{folderUUID}/file", s.requireAccessToken(s.handleListFiles))

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type", common.AccessTokenHeaderName, common.ServiceTokenHeaderName},
	})
	return c.Handler(mux)
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
