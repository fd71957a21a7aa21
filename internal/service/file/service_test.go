package file

import (
	"context"
	"strings"
	"testing"

	"github.com/storeshift/hris-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadLeaveAttachment(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewFileService(local)
	ctx := context.Background()

	a, err := svc.UploadLeaveAttachment(ctx, "EMP_1", strings.NewReader("%PDF-1.4"), "Surat Dokter.PDF")
	require.NoError(t, err)

	assert.Regexp(t, `^leave/EMP_1/[0-9a-f-]{36}\.pdf$`, a.Key)
	assert.Equal(t, "http://localhost:8080/uploads/"+a.Key, a.URL)
	assert.Equal(t, "Surat Dokter.PDF", a.FileName)

	rc, err := local.Open(ctx, a.Key)
	require.NoError(t, err)
	rc.Close()

	require.NoError(t, svc.DeleteFile(ctx, a.Key))
	_, err = local.Open(ctx, a.Key)
	assert.Error(t, err)
}
