package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3Archiver_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3Archiver(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3Archiver(&config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewS3Archiver(&config.StorageConfig{Bucket: "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key id")
	})

	t.Run("defaults", func(t *testing.T) {
		a, err := NewS3Archiver(&config.StorageConfig{
			Bucket:          "payroll",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Endpoint:        "localhost:9000",
		}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "payroll", a.Bucket())
		assert.Equal(t, 15*time.Minute, a.presignExpiration)
	})

	t.Run("explicit expiration option wins", func(t *testing.T) {
		a, err := NewS3Archiver(&config.StorageConfig{
			Bucket:          "payroll",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			PresignExpiry:   time.Hour,
		}, WithPresignExpiration(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, time.Minute, a.presignExpiration)
	})
}

// fakeS3 records PUT requests the way a path-style S3 endpoint receives them
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.objects[r.URL.Path] = body
	f.types[r.URL.Path] = r.Header.Get("Content-Type")
	f.mu.Unlock()
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func TestS3Archiver_Archive(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	a, err := NewS3Archiver(&config.StorageConfig{
		Bucket:          "payroll",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		Endpoint:        server.URL,
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	url, err := a.Archive(context.Background(), "exports/t/file.csv", []byte("Status\n"), "text/csv")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, server.URL+"/payroll/exports/t/file.csv?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []byte("Status\n"), fake.objects["/payroll/exports/t/file.csv"])
	assert.Equal(t, "text/csv", fake.types["/payroll/exports/t/file.csv"])
}

func TestS3Archiver_ArchiveDocuments(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	a, err := NewS3Archiver(&config.StorageConfig{
		Bucket:          "payroll",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		Endpoint:        server.URL,
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	tenantID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	payslipID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	_, err = a.ArchiveExport(context.Background(), tenantID, &payrollapp.Document{
		Filename: "payslips.csv", ContentType: "text/csv", Data: []byte("a,b\n"),
	})
	require.NoError(t, err)
	_, err = a.ArchivePayslip(context.Background(), tenantID, payslipID, &payrollapp.Document{
		Filename: "payslip-e1-2024-01-01.pdf", ContentType: "application/pdf", Data: []byte("%PDF-"),
	})
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.objects, "/payroll/exports/11111111-1111-1111-1111-111111111111/20240506T070809Z-payslips.csv")
	assert.Contains(t, fake.objects,
		"/payroll/payslips/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222-20240506T070809Z.pdf")
}

func TestS3Archiver_Archive_EmptyKey(t *testing.T) {
	a, err := NewS3Archiver(&config.StorageConfig{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"})
	require.NoError(t, err)
	_, err = a.Archive(context.Background(), "", nil, "text/csv")
	assert.Error(t, err)
}

func TestObjectKeys(t *testing.T) {
	tenantID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	payslipID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	assert.Equal(t,
		"exports/11111111-1111-1111-1111-111111111111/20240506T070809Z-payslips.xlsx",
		ExportKey(tenantID, at, "payslips.xlsx"))
	assert.Equal(t,
		"exports/11111111-1111-1111-1111-111111111111/20240506T070809Z-evil",
		ExportKey(tenantID, at, "../../evil"))
	assert.Equal(t,
		"payslips/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222-20240506T070809Z.pdf",
		PayslipKey(tenantID, payslipID, at, ".pdf"))
}
