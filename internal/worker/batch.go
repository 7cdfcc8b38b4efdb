package worker

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/verdict/internal/model"
)

// Judge decides a single dispute
type Judge interface {
	Judge(ctx context.Context, d model.Dispute) (*model.Judgment, error)
}

// JudgeJob represents one dispute in a batch
type JudgeJob struct {
	Index   int
	Dispute model.Dispute
	Judge   Judge
}

// Execute executes the judge job
func (j *JudgeJob) Execute(ctx context.Context) Result {
	judgment, err := j.Judge.Judge(ctx, j.Dispute)
	if err != nil {
		return &JudgeResult{
			Index:   j.Index,
			Dispute: j.Dispute,
			Error:   err,
		}
	}
	return &JudgeResult{
		Index:    j.Index,
		Dispute:  j.Dispute,
		Judgment: judgment,
	}
}

// JudgeResult represents the result of a judge job
type JudgeResult struct {
	Index    int
	Dispute  model.Dispute
	Judgment *model.Judgment
	Error    error
}

// GetError returns the error from the judge result
func (r *JudgeResult) GetError() error {
	return r.Error
}

// BatchProcessor judges multiple disputes concurrently
type BatchProcessor struct {
	judge       Judge
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(judge Judge, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		judge:       judge,
		concurrency: concurrency,
	}
}

// ProcessDisputes judges disputes concurrently and returns the results in
// input order
func (b *BatchProcessor) ProcessDisputes(ctx context.Context, disputes []model.Dispute) []*JudgeResult {
	if len(disputes) == 0 {
		return []*JudgeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, d := range disputes {
		if !pool.Submit(&JudgeJob{Index: i, Dispute: d, Judge: b.judge}) {
			break
		}
	}

	results := pool.Wait()

	judged := make([]*JudgeResult, len(results))
	for i, result := range results {
		judged[i] = result.(*JudgeResult)
	}
	sort.Slice(judged, func(i, j int) bool { return judged[i].Index < judged[j].Index })

	return judged
}

// ProcessFile reads disputes from a file and judges them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*JudgeResult, error) {
	disputes, err := ReadDisputesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read disputes: %w", err)
	}

	return b.ProcessDisputes(ctx, disputes), nil
}

type disputeFile struct {
	Disputes []model.Dispute `yaml:"disputes"`
}

// ReadDisputesFromFile reads disputes from a YAML or JSON file. The file
// holds either a bare list or a mapping with a "disputes" list.
func ReadDisputesFromFile(filePath string) ([]model.Dispute, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Dispute{}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse disputes: %w", err)
	}

	if len(node.Content) == 0 {
		return []model.Dispute{}, nil
	}

	var disputes []model.Dispute
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&disputes)
	case yaml.MappingNode:
		var file disputeFile
		err = root.Decode(&file)
		disputes = file.Disputes
	default:
		return nil, fmt.Errorf("parse disputes: expected a list or a mapping with a disputes key")
	}
	if err != nil {
		return nil, fmt.Errorf("decode disputes: %w", err)
	}

	if disputes == nil {
		disputes = []model.Dispute{}
	}
	return disputes, nil
}
