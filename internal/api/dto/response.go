package dto

// Response 统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageQuery skip/limit 分页参数
type PageQuery struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}
