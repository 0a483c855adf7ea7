package serverless

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	fiberadapter "github.com/awslabs/aws-lambda-go-api-proxy/fiber"
	"github.com/gofiber/fiber/v2"
)

// NewLambdaHandler는 Fiber 앱을 API Gateway 요청 핸들러로 감쌉니다
func NewLambdaHandler(app *fiber.App) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	fiberLambda := fiberadapter.New(app)

	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		// Lambda 요청을 Fiber 앱으로 전달
		return fiberLambda.ProxyWithContext(ctx, req)
	}
}

// LambdaMain은 AWS Lambda 진입점 함수입니다
func LambdaMain(app *fiber.App) {
	lambda.Start(NewLambdaHandler(app))
}
