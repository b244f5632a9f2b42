package spanify

// AppendJSONString appends scalar to dst as a JSON string value,
// returning the extended slice. The scalar is taken verbatim: it must
// already be a formatted value with no bytes requiring escaping, which
// holds for every codec output in this package (decimal integers and
// calendar dates). Pairs with FormatInt64To for a copy-free path from
// a typed value into an output document.
func AppendJSONString(dst []byte, scalar []byte) []byte {
	dst = append(dst, '"')
	dst = append(dst, scalar...)
	return append(dst, '"')
}
