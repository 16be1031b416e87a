package directory

import "strings"

// RegionFromARN returns the region field of an ARN, or "" when the ARN is
// global or not an ARN at all.
// arn:partition:service:region:account:resource
func RegionFromARN(arn string) string {
	if !strings.HasPrefix(arn, "arn:") {
		return ""
	}
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) > 4 {
		return parts[3]
	}
	return ""
}

// ResourceNameFromARN returns the trailing resource identifier of an ARN.
func ResourceNameFromARN(arn string) string {
	if arn == "" {
		return ""
	}
	if i := strings.LastIndex(arn, "/"); i >= 0 && i < len(arn)-1 {
		return arn[i+1:]
	}
	if i := strings.LastIndex(arn, ":"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

// QueueNameFromURL returns the queue name, the last path segment of an SQS queue URL.
func QueueNameFromURL(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
