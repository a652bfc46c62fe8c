package render

const tableCSS = `<style>
    table {
        width: 100%;
        border-collapse: collapse;
        font-family: Arial, sans-serif;
        font-size: 14px;
        margin: 20px 0;
    }
    thead {
        background-color: #f5f5f5;
        border-bottom: 2px solid #ddd;
    }
    thead th {
        padding: 10px;
        text-align: left;
        font-weight: bold;
        color: #333;
    }
    tbody tr:nth-child(even) {
        background-color: #f9f9f9;
    }
    tbody tr:hover {
        background-color: #f1f1f1;
    }
    tbody td {
        padding: 10px;
        border-bottom: 1px solid #ddd;
        color: #555;
    }
    tbody td:first-child {
        font-weight: bold;
    }
</style>
`

const bannerCSS = `<style>
    body {
        font-family: "Arial", sans-serif;
    }
    .header {
        font-weight: bold;
        font-size: 18px;
        text-align: left;
        color: #333;
        background-color: #f8f9fa;
        padding: 10px 15px;
        border-bottom: 1px solid #e1e1e1;
    }
</style>`
