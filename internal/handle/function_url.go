package handle

import (
	"context"
	"net"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/faizanTadvi/SIHP1/internal/log"
	"github.com/samber/do"
)

const requestIDHeader = "X-Request-ID"

// FunctionURLHandler serves Lambda Function URL invocations (payload format
// 2.0, shared with API Gateway HTTP APIs) through the HTTP router.
type FunctionURLHandler struct {
	adapter *httpadapter.HandlerAdapterV2
}

func NewFunctionURLHandler(i *do.Injector) (*FunctionURLHandler, error) {
	return newFunctionURLHandler(do.MustInvoke[http.Handler](i)), nil
}

func newFunctionURLHandler(h http.Handler) *FunctionURLHandler {
	return &FunctionURLHandler{adapter: httpadapter.NewV2(lambdaRequest(h))}
}

func (h *FunctionURLHandler) Handle(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("FunctionURLHandler").With(
		"method", request.RequestContext.HTTP.Method,
		"path", request.RawPath,
	)
	log.Info("handling lambda invocation")

	resp, err := h.adapter.ProxyWithContext(ctx, request)
	if err != nil {
		log.Error("proxying invocation", "error", err)
	}
	return resp, err
}

// lambdaRequest fills in what the router expects from a socket-backed request:
// a host:port RemoteAddr and a request id, taken from the invocation.
func lambdaRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.RemoteAddr != "" {
			if _, _, err := net.SplitHostPort(r.RemoteAddr); err != nil {
				r.RemoteAddr = net.JoinHostPort(r.RemoteAddr, "0")
			}
		}
		if lc, ok := lambdacontext.FromContext(r.Context()); ok && r.Header.Get(requestIDHeader) == "" {
			r.Header.Set(requestIDHeader, lc.AwsRequestID)
		}
		next.ServeHTTP(w, r)
	})
}
