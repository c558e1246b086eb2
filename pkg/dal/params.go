package dal

import (
	"strconv"

	"github.com/esgdesk/pkg/errors"
)

// ParseInt64ID 解析路径中的ID
func ParseInt64ID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("无效的ID")
	}
	return id, nil
}
