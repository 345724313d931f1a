package catalog

import "github.com/pr-poehali-dev/leopard-bag-project/internal/models"

// Sentinel categories of the two pages.
const (
	StoreSentinel     = "Все"
	PortfolioSentinel = "All"
)

// Products is the built-in storefront catalog.
var Products = []models.Product{
	{
		ID:          1,
		Name:        "Сумка-шоппер Leopard",
		Price:       12990,
		Category:    "Сумки",
		Image:       "https://images.unsplash.com/photo-1584917865442-de89df76afd3?w=800&h=800&fit=crop",
		Description: "Вместительный шоппер из экокожи с леопардовым принтом",
		Tags:        []string{"экокожа", "хит"},
	},
	{
		ID:          2,
		Name:        "Клатч Safari",
		Price:       7490,
		Category:    "Клатчи",
		Image:       "https://images.unsplash.com/photo-1566150905458-1bf1fc113f0d?w=800&h=800&fit=crop",
		Description: "Вечерний клатч на цепочке с леопардовой отделкой",
		Tags:        []string{"вечерний", "цепочка"},
	},
	{
		ID:          3,
		Name:        "Рюкзак Wild Cat",
		Price:       15490,
		Category:    "Рюкзаки",
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800&h=800&fit=crop",
		Description: "Городской рюкзак с отделением для ноутбука",
		Tags:        []string{"ноутбук 14\"", "новинка"},
	},
	{
		ID:          4,
		Name:        "Сумка через плечо Amur",
		Price:       9990,
		Category:    "Сумки",
		Image:       "https://images.unsplash.com/photo-1548036328-c9fa89d128fa?w=800&h=800&fit=crop",
		Description: "Компактная кросс-боди сумка на регулируемом ремне",
		Tags:        []string{"кросс-боди"},
	},
	{
		ID:          5,
		Name:        "Кошелек Spotted",
		Price:       3490,
		Category:    "Аксессуары",
		Image:       "https://images.unsplash.com/photo-1627123424574-724758594e93?w=800&h=800&fit=crop",
		Description: "Кошелек на молнии с леопардовым принтом",
		Tags:        []string{"натуральная кожа"},
	},
	{
		ID:          6,
		Name:        "Мини-рюкзак Jaguar",
		Price:       11490,
		Category:    "Рюкзаки",
		Image:       "https://images.unsplash.com/photo-1622560480605-d83c853bc5c3?w=800&h=800&fit=crop",
		Description: "Мини-рюкзак, который трансформируется в сумку",
		Tags:        []string{"трансформер"},
	},
	{
		ID:          7,
		Name:        "Шелковый платок Leo",
		Price:       2990,
		Category:    "Аксессуары",
		Image:       "https://images.unsplash.com/photo-1601924994987-69e26d50dc26?w=800&h=800&fit=crop",
		Description: "Платок из натурального шелка для сумки или образа",
		Tags:        []string{"шелк", "подарок"},
	},
}

// Projects is the built-in portfolio.
var Projects = []models.Project{
	{
		ID:          1,
		Title:       "E-commerce Platform",
		Description: "Полнофункциональная платформа электронной коммерции с интеграцией платежей",
		Category:    "Web Development",
		Image:       "https://images.unsplash.com/photo-1557821552-17105176677c?w=800&h=600&fit=crop",
		Tags:        []string{"React", "Node.js", "PostgreSQL"},
	},
	{
		ID:          2,
		Title:       "Mobile Fitness App",
		Description: "Мобильное приложение для отслеживания тренировок и питания",
		Category:    "Mobile Development",
		Image:       "https://images.unsplash.com/photo-1512941937669-90a1b58e7e9c?w=800&h=600&fit=crop",
		Tags:        []string{"React Native", "Firebase"},
	},
	{
		ID:          3,
		Title:       "Brand Identity Design",
		Description: "Комплексная разработка фирменного стиля для стартапа",
		Category:    "Design",
		Image:       "https://images.unsplash.com/photo-1561070791-2526d30994b5?w=800&h=600&fit=crop",
		Tags:        []string{"Figma", "Illustrator", "Branding"},
	},
	{
		ID:          4,
		Title:       "AI Dashboard",
		Description: "Аналитическая панель с визуализацией данных и ML-прогнозами",
		Category:    "Web Development",
		Image:       "https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=800&h=600&fit=crop",
		Tags:        []string{"Python", "TensorFlow", "React"},
	},
	{
		ID:          5,
		Title:       "Portfolio Website",
		Description: "Креативный портфолио-сайт для фотографа",
		Category:    "Design",
		Image:       "https://images.unsplash.com/photo-1467232004584-a241de8bcf5d?w=800&h=600&fit=crop",
		Tags:        []string{"Next.js", "Tailwind", "Framer Motion"},
	},
	{
		ID:          6,
		Title:       "Task Management System",
		Description: "Корпоративная система управления задачами и проектами",
		Category:    "Web Development",
		Image:       "https://images.unsplash.com/photo-1454165804606-c3d57bc86b40?w=800&h=600&fit=crop",
		Tags:        []string{"Vue.js", "Express", "MongoDB"},
	},
}

// Skills is the built-in skill list of the portfolio page.
var Skills = []models.Skill{
	{Name: "React & TypeScript", Level: 95, Icon: "Code2"},
	{Name: "UI/UX Design", Level: 90, Icon: "Palette"},
	{Name: "Node.js & APIs", Level: 85, Icon: "Server"},
	{Name: "Mobile Development", Level: 80, Icon: "Smartphone"},
	{Name: "Database Design", Level: 88, Icon: "Database"},
	{Name: "DevOps & Cloud", Level: 75, Icon: "Cloud"},
}
