package batch

import (
	"github.com/google/uuid"

	"github.com/invoicekit/fapiao/constants"
)

// FileJob tracks one file through the batch. Created when a file is added,
// mutated in place by the processor (single writer, no concurrent access),
// discarded on Reset.
type FileJob struct {
	ID       uuid.UUID
	FileName string
	Data     []byte
	Status   constants.JobStatus
	Progress int // 0..100
}

func newFileJob(fileName string, data []byte) *FileJob {
	return &FileJob{
		ID:       uuid.New(),
		FileName: fileName,
		Data:     data,
		Status:   constants.JobStatusPending,
	}
}
