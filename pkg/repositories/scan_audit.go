package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sh5080/devscan-go/pkg/configs"
	"github.com/sh5080/devscan-go/pkg/db"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
	model "github.com/sh5080/devscan-go/pkg/types/models"
)

const scanAuditHashKey = "ScanID"

// ScanAuditRepository는 스캔 감사 기록을 DynamoDB에 저장하고 조회하는 레포지토리입니다.
type ScanAuditRepository struct {
	client    *dynamodb.Client
	tableName string
}

// NewScanAuditRepository는 설정에 맞는 스캔 감사 레포지토리를 생성합니다.
// 테이블 이름이 설정되지 않았으면 인메모리 구현체를 반환합니다.
func NewScanAuditRepository(ctx context.Context, cfg *configs.EnvConfig) (_interface.ScanAuditRepository, error) {
	if cfg.AWS.Tables.ScanAudit == "" {
		return NewInMemoryScanAuditRepository(), nil
	}

	client, err := db.NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.CreateTableIfNotExists(ctx, client, db.TableSpec{
		Name:         cfg.AWS.Tables.ScanAudit,
		HashKey:      scanAuditHashKey,
		TTLAttribute: "expiresAt",
	}); err != nil {
		return nil, fmt.Errorf("스캔 감사 테이블 생성 실패: %w", err)
	}

	return &ScanAuditRepository{
		client:    client,
		tableName: cfg.AWS.Tables.ScanAudit,
	}, nil
}

// SaveScanAudit는 스캔 감사 기록을 저장합니다.
func (r *ScanAuditRepository) SaveScanAudit(ctx context.Context, audit *model.ScanAudit) error {
	// DynamoDB에 저장할 수 있도록 마샬링
	item, err := attributevalue.MarshalMap(audit)
	if err != nil {
		return fmt.Errorf("스캔 감사 기록 마샬 실패: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("스캔 감사 기록 저장 실패: %w", err)
	}

	return nil
}

// GetScanAudit는 스캔 ID로 감사 기록을 조회합니다. 없으면 nil을 반환합니다.
func (r *ScanAuditRepository) GetScanAudit(ctx context.Context, scanID string) (*model.ScanAudit, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			scanAuditHashKey: &types.AttributeValueMemberS{Value: scanID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("스캔 감사 기록 조회 실패: %w", err)
	}

	// 결과가 없는 경우
	if result.Item == nil {
		return nil, nil
	}

	var audit model.ScanAudit
	if err := attributevalue.UnmarshalMap(result.Item, &audit); err != nil {
		return nil, fmt.Errorf("스캔 감사 기록 언마샬 실패: %w", err)
	}

	return &audit, nil
}
