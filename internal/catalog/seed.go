package catalog

import "cinefeed/internal/domain"

// SeedTitles is the built-in catalog used when no persisted collection
// exists yet.
func SeedTitles() []domain.Title {
	return []domain.Title{
		{
			ID:          1,
			Title:       "Avatar: O Caminho da Água",
			Cover:       "https://image.tmdb.org/t/p/w500/bqbXW5qB7eYF4kXw9z1w5w5x.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/t6HIqrRAclMCA60NsSmeqe9RmNV.jpg",
			Description: "Jake Sully vive com sua nova família no planeta Pandora. Uma ameaça familiar retorna para acabar com o que havia começado anteriormente.",
			Year:        "2022",
			Type:        domain.ContentMovie,
			Category:    "Em Alta",
		},
		{
			ID:          2,
			Title:       "Gato de Botas 2",
			Cover:       "https://image.tmdb.org/t/p/w500/u3p4x3x5w5x.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/xnAi4BRoO3Q3D7aXr4GgS9IUXrS.jpg",
			Description: "O Gato de Botas descobre que sua paixão pela aventura cobrou seu preço: ele já gastou oito de suas nove vidas e agora parte em uma jornada épica.",
			Year:        "2022",
			Type:        domain.ContentMovie,
			Category:    "Recomendados",
		},
		{
			ID:          3,
			Title:       "Homem-Aranha",
			Cover:       "https://image.tmdb.org/t/p/w500/8Vt6mWEReuy4Of61Lnj5Xj704m8.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/14QbnygCuTO0vl7CAFmPf1fgZfV.jpg",
			Description: "Peter Parker é desmascarado e não consegue mais separar sua vida normal dos grandes riscos de ser um super-herói.",
			Year:        "2021",
			Type:        domain.ContentMovie,
			Category:    "Ação e Aventura",
		},
		{
			ID:          4,
			Title:       "Top Gun: Maverick",
			Cover:       "https://image.tmdb.org/t/p/w500/62HCnUTziyWcpDaBO2i1DX17ljH.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/AaV1YIdWKnjAIAOe8UUKBFm327v.jpg",
			Description: "Depois de mais de 30 anos de serviço como um dos principais aviadores da Marinha, Pete 'Maverick' Mitchell está de volta.",
			Year:        "2022",
			Type:        domain.ContentMovie,
			Category:    "Em Alta",
		},
		{
			ID:          5,
			Title:       "Tudo em Todo Lugar",
			Cover:       "https://image.tmdb.org/t/p/w500/rKvCys0f9xukAmryWscJO2iDu5j.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/7c16d5Xf9D5X1g9A5jL5j5j5j5j.jpg",
			Description: "Uma ruptura interdimensional bagunça a realidade e uma inesperada heroína precisa usar seus novos poderes para lutar.",
			Year:        "2022",
			Type:        domain.ContentMovie,
			Category:    "Top 10",
		},
		{
			ID:          6,
			Title:       "The Batman",
			Cover:       "https://image.tmdb.org/t/p/w500/74xTEgt7R36Fpooo50x9TZr6d8D.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/b0PlSFdDwtrXPa4k9nzn6B4sy5.jpg",
			Description: "Em seu segundo ano de combate ao crime, Batman descobre a corrupção em Gotham City que se conecta à sua própria família.",
			Year:        "2022",
			Type:        domain.ContentMovie,
			Category:    "Novidades",
		},
		{
			ID:          7,
			Title:       "The Last of Us",
			Cover:       "https://image.tmdb.org/t/p/w500/uKvVjHNqB5VmOrdxqAt2F7J78ED.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/uDgy6hyPd82kOHh6I95FLtLnj6p.jpg",
			Description: "Joel e Ellie, uma dupla conectada pela dureza do mundo em que vivem, são forçados a suportar circunstâncias brutais em uma caminhada pelos EUA pós-pandêmicos.",
			Year:        "2023",
			Type:        domain.ContentSeries,
			Category:    "Em Alta",
		},
		{
			ID:          8,
			Title:       "Stranger Things",
			Cover:       "https://image.tmdb.org/t/p/w500/49WJfeN0moxb9IPfGn8AIqMGskD.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/56v2KjBlU4XaOv9rVYkJu64HIIV.jpg",
			Description: "Quando um garoto desaparece, a cidade toda participa nas buscas. Mas o que encontram são segredos, forças sobrenaturais e uma menina.",
			Year:        "2016",
			Type:        domain.ContentSeries,
			Category:    "Top 10",
		},
		{
			ID:          9,
			Title:       "Wandinha",
			Cover:       "https://image.tmdb.org/t/p/w500/9RkwQB56dfTApC18XJ1w7eWDf1Y.jpg",
			Backdrop:    "https://image.tmdb.org/t/p/original/iHSwvRVsRyxpX7FE7GbviaDvgGZ.jpg",
			Description: "Inteligente, sarcástica e apática, Wandinha Addams pode estar meio morta por dentro, mas na Escola Nunca Mais ela vai fazer amigos, inimigos e investigar assassinatos.",
			Year:        "2022",
			Type:        domain.ContentSeries,
			Category:    "Novidades",
		},
	}
}
