package config

type AWS struct {
	Region string `env:"AWS_REGION" envDefault:"us-east-1"`
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string `env:"AWS_ENDPOINT_URL"`
}

type DynamoDB struct {
	Table string `env:"DYNAMODB_TABLE" envDefault:"stock-products"`
}
