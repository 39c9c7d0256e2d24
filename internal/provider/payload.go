// internal/provider/payload.go
package provider

// Cloud API message payloads. Only text and template sends exist here; media
// is out of scope for this service.

func TextPayload(to, body string) map[string]any {
    return map[string]any{
        "messaging_product": "whatsapp",
        "recipient_type":    "individual",
        "to":                to,
        "type":              "text",
        "text":              map[string]any{"body": body},
    }
}

func TemplatePayload(to, name, language string, params []string) map[string]any {
    template := map[string]any{
        "name":     name,
        "language": map[string]any{"code": language},
    }
    if len(params) > 0 {
        parameters := make([]map[string]any, 0, len(params))
        for _, p := range params {
            parameters = append(parameters, map[string]any{"type": "text", "text": p})
        }
        template["components"] = []map[string]any{
            {"type": "body", "parameters": parameters},
        }
    }
    return map[string]any{
        "messaging_product": "whatsapp",
        "recipient_type":    "individual",
        "to":                to,
        "type":              "template",
        "template":          template,
    }
}
