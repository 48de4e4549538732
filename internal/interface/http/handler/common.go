package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
	"github.com/xiebiao/libraryhub/pkg/response"
)

const timeLayout = "2006-01-02 15:04:05"

// bindJSON 绑定失败时已写入响应
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return false
	}
	return true
}

// uintParam 解析路径参数，失败时已写入响应
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+name)
		return 0, false
	}
	return uint(v), true
}
