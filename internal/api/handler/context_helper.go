package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"skoleadmin/backend/internal/api/middleware"
	"skoleadmin/backend/internal/api/validation"
	"skoleadmin/backend/pkg/modulperiode"
	"skoleadmin/backend/pkg/response"
)

// bindFailed 写入参数校验失败响应，details 为各字段的错误说明
func bindFailed(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Forespørgslen er for stor")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "Ugyldige parametre", validation.Describe(err))
}

// bindOptionalJSON 允许空请求体；有内容时按 JSON 绑定并校验
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// MustGetParam 读取路径参数，为空时写入 400 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetParam(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		response.BadRequest(c, 10001, name+" mangler")
		return "", false
	}
	return v, true
}

// parseReason 取模块期解析失败的具体原因
func parseReason(err error) string {
	var perr *modulperiode.ParseError
	if errors.As(err, &perr) {
		return perr.Reason
	}
	return err.Error()
}
