package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sh5080/devscan-go/pkg/configs"
)

// NewDynamoDBClient는 설정에 맞는 DynamoDB 클라이언트를 생성합니다.
// 자격증명이 없으면 기본 자격증명 프로바이더 체인을 사용합니다.
func NewDynamoDBClient(ctx context.Context, config *configs.EnvConfig) (*dynamodb.Client, error) {
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.AWS.Region),
	}

	// AWS 자격증명이 설정되어 있을 경우 고정 자격증명 사용
	if config.AWS.AccessKeyID != "" && config.AWS.SecretAccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.AWS.AccessKeyID,
				config.AWS.SecretAccessKey,
				"",
			),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("AWS 설정 로드 실패: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if config.AWS.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(config.AWS.DynamoDBEndpoint)
		}
	}), nil
}

// TableSpec은 문자열 해시 키 하나를 가진 테이블 정의입니다
type TableSpec struct {
	Name         string
	HashKey      string
	TTLAttribute string
}

// CreateTableIfNotExists는 테이블이 없을 경우 생성하고 TTL을 활성화합니다.
func CreateTableIfNotExists(ctx context.Context, client *dynamodb.Client, spec TableSpec) error {
	// 테이블 존재 여부 확인
	exists, err := tableExists(ctx, client, spec.Name)
	if err != nil {
		return fmt.Errorf("테이블 존재 여부 확인 실패: %w", err)
	}

	// 테이블이 이미 존재하면 생성하지 않음
	if exists {
		return nil
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(spec.Name),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(spec.HashKey),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String(spec.HashKey),
				KeyType:       types.KeyTypeHash,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("테이블 생성 실패: %w", err)
	}

	// 테이블 생성 완료될 때까지 대기
	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(spec.Name),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("테이블 생성 완료 대기 실패: %w", err)
	}

	if spec.TTLAttribute == "" {
		return nil
	}

	_, err = client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(spec.Name),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String(spec.TTLAttribute),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("TTL 설정 실패: %w", err)
	}

	return nil
}

// tableExists는 테이블이 존재하는지 확인합니다.
func tableExists(ctx context.Context, client *dynamodb.Client, tableName string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		// 테이블이 존재하지 않는 경우
		var notFoundErr *types.ResourceNotFoundException
		if errors.As(err, &notFoundErr) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
