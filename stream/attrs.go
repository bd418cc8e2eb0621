package stream

import (
	"strconv"

	"github.com/aws/aws-lambda-go/events"
)

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// getBoolAttr extracts a boolean attribute from a DynamoDB stream image.
func getBoolAttr(image map[string]events.DynamoDBAttributeValue, key string) bool {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeBoolean {
		return v.Boolean()
	}
	return false
}

// getNumberAttr extracts a number attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeNumber {
		n, _ := strconv.ParseInt(v.Number(), 10, 64)
		return n
	}
	return 0
}

// getMapAttr extracts a map attribute from a DynamoDB stream image.
func getMapAttr(image map[string]events.DynamoDBAttributeValue, key string) map[string]events.DynamoDBAttributeValue {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeMap {
		return v.Map()
	}
	return nil
}
