package prompt

var builtin = map[Kind]map[string]string{
	KindEmail: {
		"en": `Write a debt collection email to {{debtor_name}} about an outstanding balance of {{amount}} owed to {{creditor_name}}.
Account reference: {{account_reference}}. Days past due: {{days_overdue}}.
Tone: {{tone}}. Write in {{language}}.
Include a clear call to action and a way to contact us. Do not threaten legal action that is not intended.
Return a subject line on the first line, then the body.`,
		"es": `Redacta un correo de cobranza para {{debtor_name}} sobre un saldo pendiente de {{amount}} con {{creditor_name}}.
Referencia de cuenta: {{account_reference}}. Días de atraso: {{days_overdue}}.
Tono: {{tone}}. Escribe en {{language}}.
Incluye una llamada a la acción clara y una forma de contactarnos. No amenaces con acciones legales que no se tomarán.
Devuelve el asunto en la primera línea y luego el cuerpo.`,
	},
	KindSMS: {
		"en": `Write a collection SMS under 160 characters for {{debtor_name}} about {{amount}} owed to {{creditor_name}}.
Tone: {{tone}}. Include a payment link placeholder {{payment_link}} and opt-out text.`,
		"es": `Escribe un SMS de cobranza de menos de 160 caracteres para {{debtor_name}} sobre {{amount}} adeudado a {{creditor_name}}.
Tono: {{tone}}. Incluye el enlace de pago {{payment_link}} y el texto para darse de baja.`,
	},
	KindCallScript: {
		"en": `Write a phone call script for an agent contacting {{debtor_name}} about {{amount}} owed to {{creditor_name}}.
Include the required mini-Miranda disclosure, identity verification, payment options and objection handling.
Tone: {{tone}}. Language: {{language}}.`,
		"es": `Escribe un guion de llamada para un agente que contacta a {{debtor_name}} por {{amount}} adeudado a {{creditor_name}}.
Incluye la divulgación legal obligatoria, verificación de identidad, opciones de pago y manejo de objeciones.
Tono: {{tone}}. Idioma: {{language}}.`,
	},
	KindNegotiation: {
		"en": `The debtor {{debtor_name}} owes {{amount}} and said: "{{debtor_message}}".
Their stated circumstances: {{circumstances}}. The creditor allows settlements down to {{min_settlement_percent}}% and plans up to {{max_installments}} installments.
Propose a fair settlement or payment plan and draft a reply. Tone: {{tone}}. Write in {{language}}.`,
		"es": `El deudor {{debtor_name}} debe {{amount}} y dijo: "{{debtor_message}}".
Circunstancias declaradas: {{circumstances}}. El acreedor acepta acuerdos desde {{min_settlement_percent}}% y planes de hasta {{max_installments}} cuotas.
Propón un acuerdo justo o un plan de pagos y redacta una respuesta. Tono: {{tone}}. Escribe en {{language}}.`,
	},
	KindStrategy: {
		"en": `Recommend a collection strategy for a case with balance {{amount}}, {{days_overdue}} days overdue, {{contact_attempts}} prior contact attempts and payment history: {{payment_history}}.
Return the next three actions with channel, timing and rationale.`,
		"es": `Recomienda una estrategia de cobranza para un caso con saldo {{amount}}, {{days_overdue}} días de atraso, {{contact_attempts}} intentos de contacto previos e historial de pagos: {{payment_history}}.
Devuelve las próximas tres acciones con canal, momento y justificación.`,
	},
	KindEmailAnalysis: {
		"en": `Analyze the following email received from a debtor.
Subject: {{subject}}
Body:
{{content}}

Respond with JSON only, no prose, using exactly these keys:
{"sentiment": "positive|neutral|negative|hostile", "intent": "short label such as payment_promise, dispute, hardship, cease_contact, question", "compliance_flags": ["cease_and_desist", "dispute", "bankruptcy", "attorney_represented", ...], "summary": "one sentence"}`,
		"es": `Analiza el siguiente correo recibido de un deudor.
Asunto: {{subject}}
Cuerpo:
{{content}}

Responde solo con JSON, sin texto adicional, usando exactamente estas claves:
{"sentiment": "positive|neutral|negative|hostile", "intent": "etiqueta corta como payment_promise, dispute, hardship, cease_contact, question", "compliance_flags": ["cease_and_desist", "dispute", "bankruptcy", "attorney_represented", ...], "summary": "una oración"}`,
	},
}
