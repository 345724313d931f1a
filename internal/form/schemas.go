package form

// ContactSchema is the portfolio contact form.
var ContactSchema = Schema{
	Name: "contact",
	Fields: []Field{
		{Name: "name", Required: true},
		{Name: "email", Required: true},
		{Name: "message", Required: true},
	},
	Messages: Messages{
		Invalid: "Заполните все поля",
		Success: "Сообщение отправлено! Я свяжусь с вами в ближайшее время",
	},
}

// OrderSchema is the storefront checkout form.
var OrderSchema = Schema{
	Name: "order",
	Fields: []Field{
		{Name: "name", Required: true},
		{Name: "phone", Required: true},
		{Name: "email"},
		{Name: "address", Required: true},
		{Name: "comment"},
	},
	Messages: Messages{
		Invalid: "Заполните обязательные поля",
		Success: "Заказ оформлен! Мы свяжемся с вами для подтверждения",
	},
}
