package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
	model "github.com/sh5080/devscan-go/pkg/types/models"
)

// InMemoryScanAuditRepository는 DynamoDB가 설정되지 않았을 때 사용하는 인메모리 구현체입니다
type InMemoryScanAuditRepository struct {
	audits map[string]*model.ScanAudit
	lock   sync.RWMutex
}

// NewInMemoryScanAuditRepository는 새 인메모리 스캔 감사 저장소를 생성합니다
func NewInMemoryScanAuditRepository() _interface.ScanAuditRepository {
	return &InMemoryScanAuditRepository{
		audits: make(map[string]*model.ScanAudit),
	}
}

// SaveScanAudit는 스캔 감사 기록을 저장합니다
func (r *InMemoryScanAuditRepository) SaveScanAudit(ctx context.Context, audit *model.ScanAudit) error {
	if audit == nil || audit.ScanID == "" {
		return fmt.Errorf("스캔 ID가 비어 있습니다")
	}

	// 쓰기 잠금 획득
	r.lock.Lock()
	defer r.lock.Unlock()

	r.pruneExpired()
	copied := *audit
	r.audits[audit.ScanID] = &copied

	return nil
}

// GetScanAudit는 스캔 ID로 감사 기록을 조회합니다. 없거나 만료되었으면 nil을 반환합니다.
func (r *InMemoryScanAuditRepository) GetScanAudit(ctx context.Context, scanID string) (*model.ScanAudit, error) {
	if scanID == "" {
		return nil, fmt.Errorf("스캔 ID가 비어 있습니다")
	}

	// 읽기 잠금 획득
	r.lock.RLock()
	defer r.lock.RUnlock()

	audit, exists := r.audits[scanID]
	if !exists || isExpired(audit, time.Now()) {
		return nil, nil // 기록 없음 (에러 아님)
	}

	copied := *audit
	return &copied, nil
}

// pruneExpired는 만료된 기록을 제거합니다. 쓰기 잠금을 가진 상태에서 호출해야 합니다.
func (r *InMemoryScanAuditRepository) pruneExpired() {
	now := time.Now()
	for id, audit := range r.audits {
		if isExpired(audit, now) {
			delete(r.audits, id)
		}
	}
}

func isExpired(audit *model.ScanAudit, now time.Time) bool {
	return audit.ExpiresAt > 0 && now.Unix() >= audit.ExpiresAt
}
