package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	RouteFiles        = RouteApiV1 + "/files"
	RouteFile         = RouteFiles + "/file"
	RouteFileDownload = RouteFile + "/download"
	RouteFilesSummary = RouteFiles + "/summary"
	RouteFilesUpload  = RouteFiles + "/upload/:user_id/:origin/:file_uuid/:file_extension"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
