package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/recordkit/internal/models"
)

func TestStampCreate(t *testing.T) {
	note := &models.Note{}
	StampCreate(note, 7)
	require.NotNil(t, note.CreatedByID)
	require.NotNil(t, note.ModifiedByID)
	assert.Equal(t, uint(7), *note.CreatedByID)
	assert.Equal(t, uint(7), *note.ModifiedByID)

	StampCreate(note, 9)
	assert.Equal(t, uint(7), *note.CreatedByID, "creator is set once")
	assert.Equal(t, uint(9), *note.ModifiedByID)
}

func TestStampUpdate(t *testing.T) {
	creator := uint(1)
	task := &models.Task{}
	task.CreatedByID = &creator

	StampUpdate(task, 2)
	assert.Equal(t, uint(1), *task.CreatedByID)
	require.NotNil(t, task.ModifiedByID)
	assert.Equal(t, uint(2), *task.ModifiedByID)

	fresh := &models.Task{}
	StampUpdate(fresh, 3)
	assert.Nil(t, fresh.CreatedByID)
}

func TestStamp_DistinctPointers(t *testing.T) {
	a, b := &models.Note{}, &models.Note{}
	StampCreate(a, 1)
	StampCreate(b, 2)
	assert.Equal(t, uint(1), *a.CreatedByID)
	assert.Equal(t, uint(2), *b.CreatedByID)
}
