package types

// VerifyRequest 验真请求体
// pkcs7b64 为必填项：缺失时网关直接返回字段缺失错误，不发起任何上游调用
type VerifyRequest struct {
	Pkcs7B64 *string `json:"pkcs7b64"`
}

// ComposeRequest 签名合成请求体
// 两个分片的顺序对机构有语义，网关按原样传递
type ComposeRequest struct {
	Pkcs7B64First  *string `json:"pkcs7b64_first"`
	Pkcs7B64Second *string `json:"pkcs7b64_second"`
}
