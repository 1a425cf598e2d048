package request

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var Request = resty.New().SetTransport(&http.Transport{
	Proxy: http.ProxyFromEnvironment, // 通用适配环境变量
}).SetRetryCount(3).
	SetRetryWaitTime(time.Second).
	SetRetryMaxWaitTime(10 * time.Second).
	AddRetryCondition(func(r *resty.Response, err error) bool {
		// DexScreener 限流时返回 429
		return err != nil || r.StatusCode() == http.StatusTooManyRequests
	})
