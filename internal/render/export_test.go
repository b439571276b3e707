package render

// bridges for the external test package
var FormatTag = formatTag

const PresignTTL = presignTTL
