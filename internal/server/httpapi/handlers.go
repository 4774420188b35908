package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"filesafe/internal/common"
	"filesafe/internal/server/models"
)

// envelope is the fixed response wrapper: {"type":"success"} on success,
// {"type":"error","message":...} on failure.
type envelope struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	envelope
	PersonUUID string `json:"personUUID"`
}

type loginResponse struct {
	envelope
	AccessToken string `json:"accessToken"`
}

type personDTO struct {
	PersonUUID   string    `json:"personUUID"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RegisteredOn time.Time `json:"registeredOn"`
	LastLogin    time.Time `json:"lastLogin"`
	Disabled     bool      `json:"disabled"`
}

type personResponse struct {
	envelope
	Person personDTO `json:"person"`
}

type personListResponse struct {
	envelope
	Persons []personDTO `json:"persons"`
}

type updatePersonRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Disabled *bool   `json:"disabled"`
}

// createFolderRequest requires destination to be present: "" addresses the
// owner's root, but an absent field is rejected.
type createFolderRequest struct {
	Name        string  `json:"name"`
	Destination *string `json:"destination"`
}

type createFolderResponse struct {
	envelope
	FolderUUID string `json:"folderUUID"`
}

type addFileObject struct {
	FolderUUID string `json:"folderUUID"`
	Name       string `json:"name"`
}

type addFileResponse struct {
	envelope
	FileUUID string `json:"fileUUID"`
}

type fileDTO struct {
	FileUUID    string    `json:"fileUUID"`
	FolderUUID  string    `json:"folderUUID"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	CreatedOn   time.Time `json:"createdOn"`
}

type fileListResponse struct {
	envelope
	Files []fileDTO `json:"files"`
}

func success() envelope { return envelope{Type: "success"} }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Type: "error", Message: message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Internal detail never reaches the client.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrInvalidRequest
	}
	return nil
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	personID, err := s.persons.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{envelope: success(), PersonUUID: personID})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, err := s.persons.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{envelope: success(), AccessToken: token})
}

func toPersonDTO(p *models.Person) personDTO {
	return personDTO{
		PersonUUID:   p.ID,
		Email:        p.Email,
		Role:         roleName(p.RoleID),
		RegisteredOn: p.RegisteredOn,
		LastLogin:    p.LastLogin,
		Disabled:     p.Disabled,
	}
}

func roleName(roleID int) string {
	for name, id := range common.RoleNames {
		if id == roleID {
			return name
		}
	}
	return ""
}

func (s *HTTPServer) handleListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.persons.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	dtos := make([]personDTO, 0, len(persons))
	for _, p := range persons {
		dtos = append(dtos, toPersonDTO(p))
	}
	writeJSON(w, http.StatusOK, personListResponse{envelope: success(), Persons: dtos})
}

func (s *HTTPServer) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := s.persons.Get(r.Context(), r.PathValue("personUUID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, personResponse{envelope: success(), Person: toPersonDTO(person)})
}

func (s *HTTPServer) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	var req updatePersonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	upd := models.PersonUpdate{Email: req.Email, Password: req.Password, Disabled: req.Disabled}
	if req.Role != nil {
		roleID, ok := common.RoleNames[*req.Role]
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown role")
			return
		}
		upd.RoleID = &roleID
	}
	if err := s.persons.Update(r.Context(), r.PathValue("personUUID"), upd); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success())
}

func (s *HTTPServer) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Destination == nil {
		writeError(w, http.StatusBadRequest, "missing destination")
		return
	}
	folderID, err := s.folders.Create(r.Context(), personIDFromContext(r.Context()), req.Name, *req.Destination)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createFolderResponse{envelope: success(), FolderUUID: folderID})
}

// maxUploadBytes caps a single multipart upload.
const maxUploadBytes = 512 << 20

// handleAddFile accepts a multipart request with an "object" JSON part
// describing the target (folderUUID, name) and a "file" part carrying the
// bytes. The upload is spooled to a temporary file first so the storage copy
// runs against a complete local file.
func (s *HTTPServer) handleAddFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var object addFileObject
	if err := json.Unmarshal([]byte(r.FormValue("object")), &object); err != nil {
		writeError(w, http.StatusBadRequest, "malformed object part")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer part.Close()

	tmp, err := os.CreateTemp("", "filesafe-upload-*")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer func() {
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, part)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := tmp.Sync(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	fileID, err := s.files.Add(r.Context(), personIDFromContext(r.Context()),
		object.FolderUUID, object.Name, tmp.Name(), size, header.Header.Get("Content-Type"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, addFileResponse{envelope: success(), FileUUID: fileID})
}

func (s *HTTPServer) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.files.ListFolder(r.Context(), personIDFromContext(r.Context()), r.PathValue("folderUUID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	dtos := make([]fileDTO, 0, len(files))
	for _, f := range files {
		dtos = append(dtos, fileDTO{
			FileUUID:    f.ID,
			FolderUUID:  f.FolderID,
			Name:        f.Name,
			Size:        f.Size,
			ContentType: f.ContentType,
			CreatedOn:   f.CreatedOn,
		})
	}
	writeJSON(w, http.StatusOK, fileListResponse{envelope: success(), Files: dtos})
}
