package scanner

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/harrison/dupescan/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestWalkError(t *testing.T) {
	tests := []struct {
		name string
		err  *WalkError
		want string
	}{
		{
			name: "path error is not repeated",
			err:  &WalkError{Path: "/data/x", Err: &fs.PathError{Op: "open", Path: "/data/x", Err: fs.ErrPermission}},
			want: "cannot read /data/x: permission denied",
		},
		{
			name: "other error",
			err:  &WalkError{Path: "/data/y", Err: errors.New("too many open files")},
			want: "cannot read /data/y: too many open files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.err.Err)
		})
	}
}

func TestTaskError(t *testing.T) {
	err := NewTaskError("/data/a", models.StateHashing, fs.ErrNotExist)

	assert.Equal(t, "/data/a while hashing: file does not exist", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.False(t, err.Timestamp.IsZero())
}

func TestTaskError_PathErrorNotRepeated(t *testing.T) {
	err := NewTaskError("/data/a", models.StateHashing, &fs.PathError{Op: "open", Path: "/data/a", Err: fs.ErrPermission})
	assert.Equal(t, "/data/a while hashing: permission denied", err.Error())
	assert.ErrorIs(t, err, fs.ErrPermission)
}
