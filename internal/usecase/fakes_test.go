package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/internal/domain/service"
	"unicert/pkg/errors"
)

// In-memory repository fakes. They mirror the Firestore adapters' behavior
// closely enough for usecase tests: the same error codes, the same status
// guards inside the "transactional" methods.

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities []*entity.AdminActivity
	failCreate bool
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{}
}

func (r *fakeActivityRepo) Create(ctx context.Context, activity *entity.AdminActivity) error {
	if r.failCreate {
		return errors.Internal("activity write refused", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *activity
	r.activities = append(r.activities, &stored)
	return nil
}

func (r *fakeActivityRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.AdminActivity, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.AdminActivity
	for _, activity := range r.activities {
		if v, ok := filter["action"]; ok && activity.Action != v {
			continue
		}
		if v, ok := filter["actorId"]; ok && activity.ActorID != v {
			continue
		}
		if v, ok := filter["targetType"]; ok && activity.TargetType != v {
			continue
		}
		matched = append(matched, activity)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := int64(len(matched))
	matched = slicePage(matched, limit, offset)
	return matched, total, nil
}

func (r *fakeActivityRepo) ListAll(ctx context.Context) ([]*entity.AdminActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.AdminActivity(nil), r.activities...), nil
}

func (r *fakeActivityRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*entity.AdminActivity
	deleted := 0
	for _, activity := range r.activities {
		if activity.Timestamp.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, activity)
	}
	r.activities = kept
	return deleted, nil
}

func (r *fakeActivityRepo) byAction(action string) []*entity.AdminActivity {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.AdminActivity
	for _, activity := range r.activities {
		if activity.Action == action {
			matched = append(matched, activity)
		}
	}
	return matched
}

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[string]*entity.User
	activities *fakeActivityRepo
}

func newFakeUserRepo(activities *fakeActivityRepo) *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*entity.User),
		activities: activities,
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.User
	for _, user := range r.users {
		if v, ok := filter["status"]; ok && user.Status != v {
			continue
		}
		if v, ok := filter["userType"]; ok && user.UserType != v {
			continue
		}
		copied := *user
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	matched = slicePage(matched, limit, offset)
	return matched, total, nil
}

func (r *fakeUserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.User
	for _, user := range r.users {
		copied := *user
		all = append(all, &copied)
	}
	return all, nil
}

func (r *fakeUserRepo) SetStatusWithActivity(ctx context.Context, userID string, fromStatuses []string, toStatus string, activity *entity.AdminActivity) (*entity.User, error) {
	r.mu.Lock()
	user, ok := r.users[userID]
	if !ok {
		r.mu.Unlock()
		return nil, errors.NotFound("User", nil)
	}

	allowed := false
	for _, from := range fromStatuses {
		if user.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		r.mu.Unlock()
		return nil, errors.Conflict("User is not in "+strings.Join(fromStatuses, " or ")+" status", nil)
	}

	user.Status = toStatus
	user.UpdatedAt = time.Now()
	copied := *user
	r.mu.Unlock()

	if err := r.activities.Create(ctx, activity); err != nil {
		return nil, err
	}
	return &copied, nil
}

func (r *fakeUserRepo) SoftDelete(ctx context.Context, userID string, activity *entity.AdminActivity) (*entity.User, error) {
	r.mu.Lock()
	user, ok := r.users[userID]
	if !ok {
		r.mu.Unlock()
		return nil, errors.NotFound("User", nil)
	}
	if user.DeletedAt != nil {
		r.mu.Unlock()
		return nil, errors.Conflict("User is already deleted", nil)
	}

	now := time.Now()
	user.Status = entity.UserStatusInactive
	user.DeletedAt = &now
	user.UpdatedAt = now
	copied := *user
	r.mu.Unlock()

	if err := r.activities.Create(ctx, activity); err != nil {
		return nil, err
	}
	return &copied, nil
}

type fakeCertRepo struct {
	mu         sync.Mutex
	certs      map[string]*entity.Certificate
	activities *fakeActivityRepo
	nextID     int
}

func newFakeCertRepo(activities *fakeActivityRepo) *fakeCertRepo {
	return &fakeCertRepo{
		certs:      make(map[string]*entity.Certificate),
		activities: activities,
	}
}

func (r *fakeCertRepo) Create(ctx context.Context, cert *entity.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cert.ID == "" {
		r.nextID++
		cert.ID = fmt.Sprintf("cert-%d", r.nextID)
	}
	now := time.Now()
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = now
	}
	cert.UpdatedAt = now

	stored := *cert
	r.certs[cert.ID] = &stored
	return nil
}

func (r *fakeCertRepo) GetByID(ctx context.Context, id string) (*entity.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cert, ok := r.certs[id]
	if !ok {
		return nil, errors.NotFound("Certificate", nil)
	}
	copied := *cert
	return &copied, nil
}

func (r *fakeCertRepo) GetByVerificationCode(ctx context.Context, code string) (*entity.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cert := range r.certs {
		if cert.VerificationCode == code && code != "" {
			copied := *cert
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Certificate", nil)
}

func (r *fakeCertRepo) Update(ctx context.Context, cert *entity.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.certs[cert.ID]; !ok {
		return errors.NotFound("Certificate", nil)
	}
	cert.UpdatedAt = time.Now()
	stored := *cert
	r.certs[cert.ID] = &stored
	return nil
}

func (r *fakeCertRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.certs[id]; !ok {
		return errors.NotFound("Certificate", nil)
	}
	delete(r.certs, id)
	return nil
}

func (r *fakeCertRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Certificate, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Certificate
	for _, cert := range r.certs {
		if v, ok := filter["status"]; ok && string(cert.Status) != v {
			continue
		}
		if v, ok := filter["templateId"]; ok && cert.TemplateID != v {
			continue
		}
		if v, ok := filter["issuerId"]; ok && cert.IssuerID != v {
			continue
		}
		if v, ok := filter["recipientId"]; ok && cert.RecipientID != v {
			continue
		}
		copied := *cert
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	matched = slicePage(matched, limit, offset)
	return matched, total, nil
}

func (r *fakeCertRepo) ListAll(ctx context.Context) ([]*entity.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.Certificate
	for _, cert := range r.certs {
		copied := *cert
		all = append(all, &copied)
	}
	return all, nil
}

func (r *fakeCertRepo) Transition(ctx context.Context, id string, to entity.CertificateStatus, mutate func(*entity.Certificate) error, activity *entity.AdminActivity) (*entity.Certificate, error) {
	r.mu.Lock()
	cert, ok := r.certs[id]
	if !ok {
		r.mu.Unlock()
		return nil, errors.NotFound("Certificate", nil)
	}

	if !cert.Status.CanTransitionTo(to) {
		r.mu.Unlock()
		return nil, errors.Conflict(fmt.Sprintf("Certificate cannot move from %s to %s", cert.Status, to), nil)
	}

	cert.Status = to
	if mutate != nil {
		if err := mutate(cert); err != nil {
			r.mu.Unlock()
			return nil, err
		}
	}
	cert.UpdatedAt = time.Now()
	copied := *cert
	r.mu.Unlock()

	if activity != nil {
		if err := r.activities.Create(ctx, activity); err != nil {
			return nil, err
		}
	}
	return &copied, nil
}

type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]*entity.CertificateTemplate
	nextID    int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*entity.CertificateTemplate)}
}

func (r *fakeTemplateRepo) Create(ctx context.Context, template *entity.CertificateTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if template.ID == "" {
		r.nextID++
		template.ID = fmt.Sprintf("tpl-%d", r.nextID)
	}
	now := time.Now()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now

	stored := *template
	r.templates[template.ID] = &stored
	return nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*entity.CertificateTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return nil, errors.NotFound("Template", nil)
	}
	copied := *template
	return &copied, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, template *entity.CertificateTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[template.ID]; !ok {
		return errors.NotFound("Template", nil)
	}
	template.UpdatedAt = time.Now()
	stored := *template
	r.templates[template.ID] = &stored
	return nil
}

func (r *fakeTemplateRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.CertificateTemplate, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.CertificateTemplate
	for _, template := range r.templates {
		if activeOnly && !template.Active {
			continue
		}
		copied := *template
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	total := int64(len(matched))
	matched = slicePage(matched, limit, offset)
	return matched, total, nil
}

func (r *fakeTemplateRepo) ListAll(ctx context.Context) ([]*entity.CertificateTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.CertificateTemplate
	for _, template := range r.templates {
		copied := *template
		all = append(all, &copied)
	}
	return all, nil
}

type fakeDocumentRepo struct {
	mu         sync.Mutex
	documents  map[string]*entity.Document
	activities *fakeActivityRepo
	nextID     int
	failCreate bool
}

func newFakeDocumentRepo(activities *fakeActivityRepo) *fakeDocumentRepo {
	return &fakeDocumentRepo{
		documents:  make(map[string]*entity.Document),
		activities: activities,
	}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate {
		return errors.Internal("document store unavailable", nil)
	}

	if document.ID == "" {
		r.nextID++
		document.ID = fmt.Sprintf("doc-%d", r.nextID)
	}
	now := time.Now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	document.UpdatedAt = now

	stored := *document
	r.documents[document.ID] = &stored
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	document, ok := r.documents[id]
	if !ok {
		return nil, errors.NotFound("Document", nil)
	}
	copied := *document
	return &copied, nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, document *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.documents[document.ID]; !ok {
		return errors.NotFound("Document", nil)
	}
	document.UpdatedAt = time.Now()
	stored := *document
	r.documents[document.ID] = &stored
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.documents[id]; !ok {
		return errors.NotFound("Document", nil)
	}
	delete(r.documents, id)
	return nil
}

func (r *fakeDocumentRepo) ListByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]*entity.Document, int64, error) {
	return r.List(ctx, map[string]interface{}{"uploaderId": uploaderID}, limit, offset)
}

func (r *fakeDocumentRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Document, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Document
	for _, document := range r.documents {
		if v, ok := filter["status"]; ok && document.Status != v {
			continue
		}
		if v, ok := filter["type"]; ok && document.Type != v {
			continue
		}
		if v, ok := filter["uploaderId"]; ok && document.UploaderID != v {
			continue
		}
		copied := *document
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	matched = slicePage(matched, limit, offset)
	return matched, total, nil
}

func (r *fakeDocumentRepo) ListAll(ctx context.Context) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.Document
	for _, document := range r.documents {
		copied := *document
		all = append(all, &copied)
	}
	return all, nil
}

func (r *fakeDocumentRepo) Review(ctx context.Context, id, toStatus, note string, activity *entity.AdminActivity) (*entity.Document, error) {
	r.mu.Lock()
	document, ok := r.documents[id]
	if !ok {
		r.mu.Unlock()
		return nil, errors.NotFound("Document", nil)
	}
	if document.Status != entity.DocumentStatusPending {
		r.mu.Unlock()
		return nil, errors.Conflict("Document has already been reviewed", nil)
	}

	document.Status = toStatus
	document.ReviewNote = note
	document.UpdatedAt = time.Now()
	copied := *document
	r.mu.Unlock()

	if err := r.activities.Create(ctx, activity); err != nil {
		return nil, err
	}
	return &copied, nil
}

type fakeBackupRepo struct {
	mu      sync.Mutex
	records map[string]*entity.BackupRecord
	nextID  int
}

func newFakeBackupRepo() *fakeBackupRepo {
	return &fakeBackupRepo{records: make(map[string]*entity.BackupRecord)}
}

func (r *fakeBackupRepo) Create(ctx context.Context, record *entity.BackupRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		r.nextID++
		record.ID = fmt.Sprintf("backup-%d", r.nextID)
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now()
	}

	stored := *record
	r.records[record.ID] = &stored
	return nil
}

func (r *fakeBackupRepo) GetByID(ctx context.Context, id string) (*entity.BackupRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, errors.NotFound("Backup record", nil)
	}
	copied := *record
	return &copied, nil
}

func (r *fakeBackupRepo) Update(ctx context.Context, record *entity.BackupRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return errors.NotFound("Backup record", nil)
	}
	stored := *record
	r.records[record.ID] = &stored
	return nil
}

func (r *fakeBackupRepo) List(ctx context.Context, limit, offset int) ([]*entity.BackupRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.BackupRecord
	for _, record := range r.records {
		copied := *record
		all = append(all, &copied)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].StartedAt.After(all[j].StartedAt)
	})

	total := int64(len(all))
	all = slicePage(all, limit, offset)
	return all, total, nil
}

type fakeSnapshotRepo struct {
	mu          sync.Mutex
	collections map[string][]repository.RawDocument
	failDump    map[string]bool
	failEvery   int // every Nth restore write fails when > 0
	writes      int
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{
		collections: make(map[string][]repository.RawDocument),
		failDump:    make(map[string]bool),
	}
}

func (r *fakeSnapshotRepo) DumpCollection(ctx context.Context, collection string, since time.Time) ([]repository.RawDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failDump[collection] {
		return nil, errors.Internal("dump refused", nil)
	}

	var docs []repository.RawDocument
	for _, doc := range r.collections[collection] {
		if !since.IsZero() {
			updatedAt, ok := doc.Data["updatedAt"].(time.Time)
			if !ok || !updatedAt.After(since) {
				continue
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *fakeSnapshotRepo) RestoreCollection(ctx context.Context, collection string, docs []repository.RawDocument) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	restored := 0
	failed := 0
	var kept []repository.RawDocument
	for _, doc := range docs {
		r.writes++
		if r.failEvery > 0 && r.writes%r.failEvery == 0 {
			failed++
			continue
		}
		kept = append(kept, doc)
		restored++
	}
	r.collections[collection] = kept
	return restored, failed, nil
}

type fakeAuthClient struct {
	mu        sync.Mutex
	passwords map[string]string // email -> password
	uids      map[string]string // email -> uid
	emails    map[string]string // uid -> email
	disabled  map[string]bool
	revoked   map[string]int
	nextUID   int
}

func newFakeAuthClient() *fakeAuthClient {
	return &fakeAuthClient{
		passwords: make(map[string]string),
		uids:      make(map[string]string),
		emails:    make(map[string]string),
		disabled:  make(map[string]bool),
		revoked:   make(map[string]int),
	}
}

func (f *fakeAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.uids[email]; exists {
		return "", fmt.Errorf("email already registered")
	}
	f.nextUID++
	uid := fmt.Sprintf("uid-%d", f.nextUID)
	f.uids[email] = uid
	f.emails[uid] = email
	f.passwords[email] = password
	return uid, nil
}

func (f *fakeAuthClient) VerifyToken(ctx context.Context, idToken string) (string, error) {
	if !strings.HasPrefix(idToken, "token-") {
		return "", fmt.Errorf("malformed token")
	}
	return strings.TrimPrefix(idToken, "token-"), nil
}

func (f *fakeAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	uid, ok := f.uids[email]
	if !ok || f.passwords[email] != password {
		return "", "", fmt.Errorf("invalid credentials")
	}
	if f.disabled[uid] {
		return "", "", fmt.Errorf("account disabled")
	}
	return "token-" + uid, "refresh-" + uid, nil
}

func (f *fakeAuthClient) RefreshIDToken(ctx context.Context, refreshToken string) (string, string, error) {
	if !strings.HasPrefix(refreshToken, "refresh-") {
		return "", "", fmt.Errorf("malformed refresh token")
	}
	uid := strings.TrimPrefix(refreshToken, "refresh-")
	return "token-" + uid, "refresh-" + uid, nil
}

func (f *fakeAuthClient) UpdateUserPassword(ctx context.Context, uid, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.emails[uid]
	if !ok {
		return fmt.Errorf("unknown uid")
	}
	f.passwords[email] = newPassword
	return nil
}

func (f *fakeAuthClient) SetUserDisabled(ctx context.Context, uid string, disabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled[uid] = disabled
	return nil
}

func (f *fakeAuthClient) RevokeRefreshTokens(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[uid]++
	return nil
}

func (f *fakeAuthClient) DeleteUser(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.emails[uid]
	if !ok {
		return fmt.Errorf("unknown uid")
	}
	delete(f.emails, uid)
	delete(f.uids, email)
	delete(f.passwords, email)
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *fakeStorage) Upload(ctx context.Context, file io.Reader, contentType, folder, filename string, public bool) (*service.UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	objectName := strings.Trim(folder, "/") + "/" + filename
	s.mu.Lock()
	s.objects[objectName] = data
	s.types[objectName] = contentType
	s.mu.Unlock()

	url := ""
	if public {
		url = "https://storage.example.com/" + objectName
	}
	return &service.UploadResult{URL: url, ObjectName: objectName, Size: int64(len(data))}, nil
}

func (s *fakeStorage) UploadBytes(ctx context.Context, data []byte, contentType, objectName string, public bool) (*service.UploadResult, error) {
	s.mu.Lock()
	s.objects[objectName] = append([]byte(nil), data...)
	s.types[objectName] = contentType
	s.mu.Unlock()

	url := ""
	if public {
		url = "https://storage.example.com/" + objectName
	}
	return &service.UploadResult{URL: url, ObjectName: objectName, Size: int64(len(data))}, nil
}

func (s *fakeStorage) GetContent(ctx context.Context, objectName string) (io.ReadCloser, string, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.objects[objectName]
	if !ok {
		return nil, "", 0, fmt.Errorf("object %s not found", objectName)
	}
	return io.NopCloser(bytes.NewReader(data)), s.types[objectName], int64(len(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[objectName]; !ok {
		return fmt.Errorf("object %s not found", objectName)
	}
	delete(s.objects, objectName)
	s.deleted = append(s.deleted, objectName)
	return nil
}

func (s *fakeStorage) SignedDownloadURL(objectName string, expires time.Duration) (string, error) {
	return "https://storage.example.com/signed/" + objectName, nil
}

func (s *fakeStorage) Close() error { return nil }

func slicePage[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
